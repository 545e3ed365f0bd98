package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FlyCamera moves freely in all directions; the mouse looks around while the right button is held
type FlyCamera struct {
	Position  rl.Vector3
	Yaw       float32
	Pitch     float32
	MoveSpeed float32
	LookSpeed float32
	Fovy      float32

	// FastMultiplier applies while shift is held
	FastMultiplier float32
}

func New(pos rl.Vector3) *FlyCamera {
	return &FlyCamera{
		Position:       pos,
		Yaw:            -135.0,
		Pitch:          -30.0,
		MoveSpeed:      10.0, // Units per second
		LookSpeed:      0.1,
		Fovy:           45,
		FastMultiplier: 3,
	}
}

// LookAt points the camera from its position toward target
func (c *FlyCamera) LookAt(target rl.Vector3) {
	dir := rl.Vector3Subtract(target, c.Position)
	length := rl.Vector3Length(dir)
	if length < 1e-6 {
		return
	}
	dir = rl.Vector3Scale(dir, 1/length)

	c.Yaw = float32(math.Atan2(float64(dir.Z), float64(dir.X)) * 180 / math.Pi)
	c.Pitch = clampPitch(float32(math.Asin(float64(dir.Y)) * 180 / math.Pi))
}

func clampPitch(p float32) float32 {
	if p > 89 {
		return 89
	}
	if p < -89 {
		return -89
	}
	return p
}

// Input is one frame of camera controls
type Input struct {
	Forward, Back, Left, Right, Up, Down bool
	Fast                                 bool
	Look                                 rl.Vector2
}

// ReadInput samples the keyboard and mouse
func ReadInput() Input {
	in := Input{
		Forward: rl.IsKeyDown(rl.KeyW),
		Back:    rl.IsKeyDown(rl.KeyS),
		Left:    rl.IsKeyDown(rl.KeyA),
		Right:   rl.IsKeyDown(rl.KeyD),
		Up:      rl.IsKeyDown(rl.KeyE),
		Down:    rl.IsKeyDown(rl.KeyQ),
		Fast:    rl.IsKeyDown(rl.KeyLeftShift),
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		in.Look = rl.GetMouseDelta()
	}
	return in
}

func (c *FlyCamera) Update(deltaTime float32) {
	c.Apply(ReadInput(), deltaTime)
}

// Apply moves and turns the camera for one frame of input
func (c *FlyCamera) Apply(in Input, deltaTime float32) {
	c.Yaw += in.Look.X * c.LookSpeed
	c.Pitch = clampPitch(c.Pitch - in.Look.Y*c.LookSpeed)

	forward, right := c.Directions()

	var moveDir rl.Vector3
	if in.Forward {
		moveDir = rl.Vector3Add(moveDir, forward)
	}
	if in.Back {
		moveDir = rl.Vector3Subtract(moveDir, forward)
	}
	if in.Right {
		moveDir = rl.Vector3Add(moveDir, right)
	}
	if in.Left {
		moveDir = rl.Vector3Subtract(moveDir, right)
	}
	if in.Up {
		moveDir.Y++
	}
	if in.Down {
		moveDir.Y--
	}

	// Normalize diagonal movement so you don't go faster diagonally
	if rl.Vector3Length(moveDir) == 0 {
		return
	}
	speed := c.MoveSpeed
	if in.Fast {
		speed *= c.FastMultiplier
	}
	moveDir = rl.Vector3Scale(rl.Vector3Normalize(moveDir), speed*deltaTime)
	c.Position = rl.Vector3Add(c.Position, moveDir)
}

// Directions returns the unit look direction and the unit right vector (always horizontal)
func (c *FlyCamera) Directions() (forward, right rl.Vector3) {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180

	forward = rl.Vector3{
		X: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
	right = rl.Vector3{
		X: float32(-math.Sin(yawRad)),
		Y: 0,
		Z: float32(math.Cos(yawRad)),
	}
	return
}

func (c *FlyCamera) GetRaylibCamera() rl.Camera3D {
	forward, _ := c.Directions()

	return rl.Camera3D{
		Position:   c.Position,
		Target:     rl.Vector3Add(c.Position, forward),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.Fovy,
		Projection: rl.CameraPerspective,
	}
}
