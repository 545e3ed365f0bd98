package termview

import (
	"physics3d/internal/physics"
	"testing"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func newTestView(t *testing.T) (*View, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	v := New(screen)
	v.Begin()
	return v, screen
}

func TestToCell(t *testing.T) {
	v, _ := newTestView(t)

	if x, y := v.ToCell(rl.Vector3{X: 0, Y: 5}); x != 40 || y != 12 {
		t.Errorf("View center should map to (40,12), got (%d,%d)", x, y)
	}
	if x, y := v.ToCell(rl.Vector3{X: 0, Y: 0, Z: 100}); x != 40 || y != 17 {
		t.Errorf("Origin should map to (40,17) regardless of Z, got (%d,%d)", x, y)
	}
}

func TestDrawPlane(t *testing.T) {
	v, _ := newTestView(t)
	v.DrawPlane(rl.Vector3Zero(), rl.Vector3{Y: 1})

	for x := 0; x < 80; x++ {
		if v.Rune(x, 16) != runePlane {
			t.Fatalf("Expected ground at column %d row 16", x)
		}
	}
	if v.Rune(40, 10) != 0 {
		t.Error("Plane should not cover rows far above the ground")
	}

	v.Begin()
	v.DrawPlane(rl.Vector3Zero(), rl.Vector3{Z: 1})
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			if v.Rune(x, y) != 0 {
				t.Fatal("A plane facing Z is invisible in a side view")
			}
		}
	}
}

func TestDrawSphereAndAABB(t *testing.T) {
	v, _ := newTestView(t)
	v.DrawSphere(rl.Vector3{Y: 5}, 2)
	v.DrawAABB(rl.Vector3{X: 10, Y: 5}, rl.Vector3{X: 1, Y: 1, Z: 1})

	if v.Rune(40, 12) != runeSphere {
		t.Error("Expected sphere at the view center")
	}
	if v.Rune(40, 5) != 0 {
		t.Error("Sphere should not reach row 5")
	}
	if v.Rune(60, 12) != runeAABB {
		t.Error("Expected box at column 60")
	}
	if v.Rune(50, 12) != 0 {
		t.Error("Nothing should be drawn between the shapes")
	}
}

func TestTinyShapesStillVisible(t *testing.T) {
	v, _ := newTestView(t)
	v.DrawSphere(rl.Vector3{Y: 5}, 0.01)

	if v.Rune(40, 12) != runeSphere {
		t.Error("Tiny sphere should occupy its center cell")
	}
}

func TestOffscreenIgnored(t *testing.T) {
	v, _ := newTestView(t)
	v.DrawAABB(rl.Vector3{X: 1000}, rl.Vector3{X: 1, Y: 1, Z: 1})
	v.DrawSphere(rl.Vector3{Y: -1000}, 1)

	if v.Rune(-1, 0) != 0 || v.Rune(80, 0) != 0 {
		t.Error("Out of range cells should read as empty")
	}
}

func TestShowWritesScreen(t *testing.T) {
	v, screen := newTestView(t)

	scene := physics.NewScene(physics.DefaultConfig())
	scene.AddPlaneStatic(rl.Vector3{Y: 1}, 0)
	scene.AddAABBStatic(rl.Vector3{X: 10, Y: 5}, rl.Vector3{X: 1, Y: 1, Z: 1})
	scene.SetDrawer(v)
	scene.Draw()

	v.SetStatus("hi")
	v.Show()

	cells, w, _ := screen.GetContents()
	at := func(x, y int) rune {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			return ' '
		}
		return c.Runes[0]
	}

	if at(60, 12) != runeAABB {
		t.Errorf("Expected box on screen, got %q", at(60, 12))
	}
	if at(0, 16) != runePlane {
		t.Errorf("Expected ground on screen, got %q", at(0, 16))
	}
	if at(0, 0) != 'h' || at(1, 0) != 'i' {
		t.Errorf("Expected status on the top row, got %q%q", at(0, 0), at(1, 0))
	}
}
