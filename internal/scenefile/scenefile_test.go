package scenefile

import (
	"errors"
	"os"
	"path/filepath"
	"physics3d/internal/engine"
	"physics3d/internal/physics"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const sampleJSON = `{
  "name": "drop",
  "damping": 0.25,
  "objects": [
    {"name": "ground", "shape": "plane", "normal": [0, 2, 0], "distance": 0},
    {"name": "ball", "shape": "sphere", "position": [0, 5, 0], "radius": 1, "mass": 2, "velocity": [1, 0, 0]},
    {"name": "crate", "shape": "aabb", "position": [3, 1, 0], "extents": [1, 1, 1]}
  ]
}`

const sampleYAML = `
name: drop
damping: 0.25
objects:
  - name: ground
    shape: plane
    normal: [0, 2, 0]
    distance: 0
  - name: ball
    shape: sphere
    position: [0, 5, 0]
    radius: 1
    mass: 2
    velocity: [1, 0, 0]
  - name: crate
    shape: aabb
    position: [3, 1, 0]
    extents: [1, 1, 1]
`

func checkSample(t *testing.T, sf *File) {
	t.Helper()

	if sf.Name != "drop" || len(sf.Objects) != 3 {
		t.Fatalf("Unexpected scene %q with %d objects", sf.Name, len(sf.Objects))
	}
	if sf.Objects[0].Normal != (Vec3{0, 1, 0}) {
		t.Errorf("Plane normal should be normalized, got %v", sf.Objects[0].Normal)
	}
	if !sf.Objects[1].Dynamic() || sf.Objects[2].Dynamic() {
		t.Error("Only the ball should be dynamic")
	}

	cfg := sf.Config()
	if cfg.Damping != 0.25 {
		t.Errorf("Expected damping 0.25, got %f", cfg.Damping)
	}
	if cfg.Gravity != engine.DefaultGravity() {
		t.Errorf("Expected default gravity, got %v", cfg.Gravity)
	}
	if cfg.Restitution != physics.DefaultRestitution {
		t.Errorf("Expected default restitution, got %f", cfg.Restitution)
	}
}

func TestParseJSON(t *testing.T) {
	sf, err := ParseJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	checkSample(t, sf)
}

func TestParseYAML(t *testing.T) {
	sf, err := ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	checkSample(t, sf)
}

func TestNewScenePopulates(t *testing.T) {
	sf, err := ParseJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	sf.Offset = Vec3{10, 0, 0}

	scene := sf.NewScene()
	if scene.Len() != 3 {
		t.Fatalf("Expected 3 objects, got %d", scene.Len())
	}

	objs := scene.Objects()
	if _, ok := objs[0].Shape().(physics.Plane); !ok || !objs[0].IsStatic() {
		t.Error("First object should be a static plane")
	}
	ball := objs[1]
	if ball.IsStatic() || ball.Body().Mass() != 2 {
		t.Error("Ball should be dynamic with mass 2")
	}
	if ball.Position() != (rl.Vector3{X: 10, Y: 5}) {
		t.Errorf("Expected ball at offset position (10,5,0), got %v", ball.Position())
	}
	if ball.Velocity() != (rl.Vector3{X: 1}) {
		t.Errorf("Expected ball velocity (1,0,0), got %v", ball.Velocity())
	}
	if !objs[2].IsStatic() {
		t.Error("Crate should be static")
	}
}

func TestValidate(t *testing.T) {
	one := float32(1)
	velocity := Vec3{1, 0, 0}

	tests := []struct {
		name string
		obj  ObjectDef
		want error
	}{
		{"unknown shape", ObjectDef{Shape: "cone"}, ErrUnknownShape},
		{"zero radius", ObjectDef{Shape: ShapeSphere}, ErrBadRadius},
		{"negative radius", ObjectDef{Shape: ShapeSphere, Radius: -1}, ErrBadRadius},
		{"flat box", ObjectDef{Shape: ShapeAABB, Extents: Vec3{1, 0, 1}}, ErrBadExtents},
		{"zero normal", ObjectDef{Shape: ShapePlane}, ErrZeroNormal},
		{"negative mass", ObjectDef{Shape: ShapeSphere, Radius: one, Mass: -1}, ErrNegativeMass},
		{"static velocity", ObjectDef{Shape: ShapeSphere, Radius: one, Velocity: &velocity}, ErrStaticVelocity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf := File{Objects: []ObjectDef{tt.obj}}
			err := sf.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateNamesObject(t *testing.T) {
	sf := File{Objects: []ObjectDef{
		{Name: "ok", Shape: ShapeSphere, Radius: 1},
		{Name: "broken", Shape: ShapeSphere},
		{Shape: "cone"},
	}}

	err := sf.Validate()
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"object broken", "object #2"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in %q", want, msg)
		}
	}
	if strings.Contains(msg, "object ok") {
		t.Errorf("Valid object should not be reported: %q", msg)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParseJSON([]byte("{")); err == nil {
		t.Error("Expected a parse error for truncated JSON")
	}
	if _, err := ParseYAML([]byte("objects: [{shape: sphere}]")); !errors.Is(err, ErrBadRadius) {
		t.Errorf("Expected ErrBadRadius, got %v", err)
	}
	negative := `{"damping": -1, "objects": []}`
	if _, err := ParseJSON([]byte(negative)); !errors.Is(err, ErrBadDamping) {
		t.Errorf("Expected ErrBadDamping, got %v", err)
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()

	sf, err := ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	for _, name := range []string{"scene.json", "scene.yaml", "scene.yml"} {
		path := filepath.Join(dir, name)
		if err := Save(path, sf); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load %s failed: %v", name, err)
		}
		checkSample(t, loaded)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "scene.toml")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
	if err := Save(filepath.Join(dir, "scene.txt"), &File{}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat on save, got %v", err)
	}
}

func TestPopulateOtherBackend(t *testing.T) {
	sf, err := ParseJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	var planes, spheres, boxes int
	rec := &recorder{
		plane:  func() { planes++ },
		sphere: func() { spheres++ },
		aabb:   func() { boxes++ },
	}
	sf.Populate(rec)

	if planes != 1 || spheres != 1 || boxes != 1 {
		t.Errorf("Expected one of each shape, got %d planes %d spheres %d boxes", planes, spheres, boxes)
	}
}

// recorder is an engine.Scene that only counts factory calls
type recorder struct {
	plane, sphere, aabb func()
}

func (r *recorder) Update(float32)          {}
func (r *recorder) Draw()                   {}
func (r *recorder) SetDrawer(engine.Drawer) {}

func (r *recorder) AddPlaneStatic(rl.Vector3, float32) {
	r.plane()
}

func (r *recorder) AddSphereStatic(rl.Vector3, float32) {
	r.sphere()
}

func (r *recorder) AddAABBStatic(rl.Vector3, rl.Vector3) {
	r.aabb()
}

func (r *recorder) AddPlaneDynamic(rl.Vector3, float32, float32, rl.Vector3) {
	r.plane()
}

func (r *recorder) AddSphereDynamic(rl.Vector3, float32, float32, rl.Vector3) {
	r.sphere()
}

func (r *recorder) AddAABBDynamic(rl.Vector3, rl.Vector3, float32, rl.Vector3) {
	r.aabb()
}

func TestShippedScenes(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("No scenes directory")
	}

	for _, path := range paths {
		sf, err := Load(path)
		if err != nil {
			t.Errorf("Load %s failed: %v", path, err)
			continue
		}
		if scene := sf.NewScene(); scene.Len() != len(sf.Objects) {
			t.Errorf("%s: expected %d objects, got %d", path, len(sf.Objects), scene.Len())
		}
	}
}
