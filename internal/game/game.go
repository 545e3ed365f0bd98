package game

import (
	"fmt"
	"log"
	"physics3d/internal/audio"
	"physics3d/internal/camera"
	"physics3d/internal/compute"
	"physics3d/internal/config"
	"physics3d/internal/cpscene"
	"physics3d/internal/engine"
	"physics3d/internal/layout"
	"physics3d/internal/physics"
	"physics3d/internal/render"
	"physics3d/internal/scenefile"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Scenes sit either side of the origin so both can be watched at once
var (
	engineOffset = rl.Vector3{X: -30}
	cpOffset     = rl.Vector3{X: 30}
)

const (
	gpuMaxObjects = 20000
	gpuMaxPairs   = gpuMaxObjects * 20

	pokeDistance = 200
	pokeSpeed    = 12
)

// Options come from the command line and override preferences
type Options struct {
	ScenePath string
	GPU       bool
	NoAudio   bool
}

type Game struct {
	prefs config.Prefs
	opts  Options

	engineScene *physics.Scene
	cpScene     *cpscene.Scene
	emitter     *layout.Emitter
	cpEmitter   *layout.Emitter

	camera     *camera.FlyCamera
	renderer   *render.Renderer
	cpRenderer *render.Renderer
	sound      *audio.Player
	gpu        *compute.BroadPhase

	Paused      bool
	accumulator float32
	contacts    int
	lastPoke    string

	// OnReset fires after both scenes are rebuilt
	OnReset engine.Event

	// Debug timing (ms)
	updateMs float64
	drawMs   float64

	panel panelState
}

func New(prefs config.Prefs, opts Options) *Game {
	if opts.ScenePath == "" {
		opts.ScenePath = prefs.ScenePath
	}
	if opts.GPU {
		prefs.BroadPhase = config.BroadPhaseGPU
	}

	g := &Game{
		prefs:      prefs,
		opts:       opts,
		camera:     camera.New(rl.Vector3{X: 0, Y: 35, Z: 60}),
		renderer:   render.New(),
		cpRenderer: render.New(),
	}
	green := rl.Lime
	g.cpRenderer.Tint = &green
	g.camera.LookAt(rl.Vector3Zero())
	return g
}

func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(g.prefs.WindowWidth), int32(g.prefs.WindowHeight), "physics3d")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(g.prefs.TargetFPS))

	g.initSubsystems()
	defer g.release()

	if err := g.Reset(); err != nil {
		log.Printf("Scene: %v, using the default scene", err)
		g.opts.ScenePath = ""
		if err := g.Reset(); err != nil {
			log.Fatalf("Scene: default scene failed: %v", err)
		}
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}

// initSubsystems starts optional GPU and audio support; failures only disable them
func (g *Game) initSubsystems() {
	if g.prefs.BroadPhase == config.BroadPhaseGPU {
		if info, err := compute.Initialize(); err != nil {
			log.Printf("Compute: GPU unavailable, using the grid: %v", err)
			g.prefs.BroadPhase = config.BroadPhaseGrid
		} else {
			log.Printf("Compute: %s", info)
			bp, err := compute.NewBroadPhase(gpuMaxObjects, gpuMaxPairs)
			if err != nil {
				log.Printf("Compute: broad phase failed, using the grid: %v", err)
				g.prefs.BroadPhase = config.BroadPhaseGrid
			} else {
				bp.Threshold = g.prefs.GPUMinCount
				g.gpu = bp
			}
		}
	}

	if g.prefs.AudioEnabled && !g.opts.NoAudio {
		player, err := audio.NewPlayer()
		if err != nil {
			log.Printf("Audio: disabled: %v", err)
		} else {
			player.Volume = g.prefs.AudioVolume
			g.sound = player
		}
	}
}

func (g *Game) release() {
	if g.sound != nil {
		g.sound.Close()
	}
	if g.gpu != nil {
		g.gpu.Release()
	}
}

func (g *Game) broadPhase() physics.BroadPhase {
	switch g.prefs.BroadPhase {
	case config.BroadPhaseGPU:
		if g.gpu != nil {
			return g.gpu
		}
		return physics.NewGrid(g.prefs.CellSize)
	case config.BroadPhaseGrid:
		return physics.NewGrid(g.prefs.CellSize)
	}
	return nil
}

// Reset rebuilds both scenes from the scene file, or the default layout
func (g *Game) Reset() error {
	engineScene, cpScene, err := buildScenes(g.opts.ScenePath, g.prefs.ShowCP)
	if err != nil {
		return err
	}

	engineScene.SetBroadPhase(g.broadPhase())
	engineScene.SetDrawer(g.renderer)
	engineScene.OnContact.AddListener(g.onContact)
	if cpScene != nil {
		cpScene.SetDrawer(g.cpRenderer)
	}

	g.engineScene = engineScene
	g.cpScene = cpScene
	g.accumulator = 0
	g.contacts = 0

	// Same seed so both scenes receive the same drops
	seed := g.prefs.EmitSeed
	enabled := g.emitter != nil && g.emitter.Enabled
	g.emitter = layout.NewEmitter(seed)
	g.cpEmitter = layout.NewEmitter(seed)
	g.emitter.Enabled = enabled
	g.cpEmitter.Enabled = enabled

	g.panel.sync(engineScene)
	g.OnReset.Invoke()
	return nil
}

// buildScenes creates the engine scene and, if wanted, the cp scene with identical contents
func buildScenes(scenePath string, withCP bool) (*physics.Scene, *cpscene.Scene, error) {
	var sf *scenefile.File
	if scenePath != "" {
		loaded, err := scenefile.Load(scenePath)
		if err != nil {
			return nil, nil, err
		}
		sf = loaded
	}

	cfg := physics.DefaultConfig()
	if sf != nil {
		cfg = sf.Config()
	}
	fileOffset := cfg.Offset
	cfg.Offset = rl.Vector3Add(fileOffset, engineOffset)
	engineScene := physics.NewScene(cfg)

	var cpScene *cpscene.Scene
	if withCP {
		cpCfg := cpscene.DefaultConfig()
		cpCfg.Gravity = cfg.Gravity
		cpCfg.Elasticity = float64(cfg.Restitution)
		cpCfg.Offset = rl.Vector3Add(fileOffset, cpOffset)
		cpScene = cpscene.NewScene(cpCfg)
	}

	scenes := []engine.Scene{engineScene}
	if cpScene != nil {
		scenes = append(scenes, cpScene)
	}
	for _, scene := range scenes {
		if sf != nil {
			sf.Populate(scene)
		} else {
			populateDefault(scene)
		}
	}
	return engineScene, cpScene, nil
}

// populateDefault is the built-in table: ground, walls, a few boxes and spheres
func populateDefault(scene engine.Scene) {
	scene.AddPlaneStatic(rl.Vector3{Y: 1}, 0)
	layout.Boundary(scene, layout.TableSize, 2)

	scene.AddAABBDynamic(rl.Vector3{Y: 1}, rl.Vector3{X: 1, Y: 1, Z: 1}, 1, rl.Vector3Zero())
	scene.AddAABBDynamic(rl.Vector3{Y: 10}, rl.Vector3{X: 1, Y: 1, Z: 1}, 1, rl.Vector3Zero())
	layout.Spheres(scene, 9, 4)
}

func (g *Game) onContact(c physics.Contact) {
	g.contacts++
	if g.sound == nil {
		return
	}

	// The moving one makes the sound
	obj := c.B
	if obj.IsStatic() {
		obj = c.A
	}
	g.sound.Impact(obj.Center(), c.RelativeSpeed, physics.BoundsOf(obj).Radius)
}

func (g *Game) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	g.camera.Update(deltaTime)
	if g.sound != nil {
		forward, _ := g.camera.Directions()
		g.sound.SetListener(audio.NewListener(g.camera.Position, forward, rl.Vector3{Y: 1}))
	}

	g.handleInput()

	if !g.Paused {
		for _, step := range g.prefs.Step(deltaTime, &g.accumulator) {
			g.step(step)
		}
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) step(deltaTime float32) {
	g.emitter.Update(g.engineScene, deltaTime)
	g.engineScene.Update(deltaTime)

	if g.cpScene != nil {
		g.cpEmitter.Update(g.cpScene, deltaTime)
		g.cpScene.Update(deltaTime)
	}
}

func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyP) {
		g.Paused = !g.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := g.Reset(); err != nil {
			log.Printf("Scene: reset failed: %v", err)
		}
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.emit()
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.prefs.ShowPanel = !g.prefs.ShowPanel
	}

	// Left click pokes whatever is under the cursor, unless it is over the panel
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !g.panel.contains(rl.GetMousePosition()) {
		ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), g.camera.GetRaylibCamera())
		g.poke(ray.Position, ray.Direction)
	}
}

func (g *Game) emit() {
	g.emitter.Emit(g.engineScene)
	if g.cpScene != nil {
		g.cpEmitter.Emit(g.cpScene)
	}
}

// poke kicks the first dynamic object hit by the ray away from the hit surface
func (g *Game) poke(origin, direction rl.Vector3) {
	hit, ok := g.engineScene.Raycast(origin, direction, pokeDistance)
	if !ok {
		g.lastPoke = "nothing"
		return
	}
	if hit.Object.IsStatic() {
		g.lastPoke = fmt.Sprintf("static at %.1f", hit.Distance)
		return
	}

	kick := rl.Vector3Add(rl.Vector3Scale(direction, pokeSpeed), rl.Vector3{Y: pokeSpeed / 2})
	hit.Object.AddVelocity(kick)
	g.lastPoke = fmt.Sprintf("kicked at %.1f", hit.Distance)
}

func (g *Game) Draw() {
	camera := g.camera.GetRaylibCamera()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(77, 77, 77, 255))

	drawStart := time.Now()
	rl.BeginMode3D(camera)
	g.renderer.BeginFrame()
	g.cpRenderer.BeginFrame()
	render.DrawGrid(engineOffset, 20)
	g.engineScene.Draw()
	if g.cpScene != nil {
		render.DrawGrid(cpOffset, 20)
		g.cpScene.Draw()
	}
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) DrawUI() {
	rl.DrawText("WASD/QE to fly, right mouse to look, click to poke", 10, 10, 20, rl.RayWhite)
	rl.DrawText("Space emit, P pause, R reset, F1 panel", 10, 35, 20, rl.RayWhite)
	rl.DrawFPS(10, 60)

	broadPhase := g.prefs.BroadPhase
	if g.gpu != nil && g.gpu.UsingGPU() {
		broadPhase += " (on GPU)"
	}

	rl.DrawText(fmt.Sprintf("Engine: %d objects, %d contacts", g.engineScene.Len(), g.contacts), 10, 85, 16, rl.Yellow)
	if g.cpScene != nil {
		rl.DrawText(fmt.Sprintf("cp:     %d objects", g.cpScene.Len()), 10, 105, 16, rl.Lime)
	}
	rl.DrawText(fmt.Sprintf("Broad phase: %s", broadPhase), 10, 125, 16, rl.Yellow)
	if g.lastPoke != "" {
		rl.DrawText(fmt.Sprintf("Poke: %s", g.lastPoke), 10, 145, 16, rl.Yellow)
	}

	rl.DrawText(fmt.Sprintf("Update: %.2f ms", g.updateMs), 10, 170, 16, rl.Green)
	rl.DrawText(fmt.Sprintf("Draw:   %.2f ms", g.drawMs), 10, 190, 16, rl.Green)
	rl.DrawText(fmt.Sprintf("Total:  %.2f ms", g.updateMs+g.drawMs), 10, 210, 16, rl.Lime)

	if g.prefs.ShowPanel {
		g.drawPanel()
	}
}
