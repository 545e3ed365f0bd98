package game

import (
	"fmt"
	"log"
	"physics3d/internal/config"
	"physics3d/internal/physics"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	panelWidth  = 260
	panelHeight = 330
	panelMargin = 10
	rowHeight   = 24
)

var (
	colorBgPanel   = rl.NewColor(18, 18, 24, 245)
	colorBgElement = rl.NewColor(28, 28, 38, 255)
	colorBgHover   = rl.NewColor(38, 38, 52, 255)
	colorAccent    = rl.NewColor(99, 102, 241, 255) // Indigo
	colorText      = rl.NewColor(220, 220, 230, 255)
	colorTextMuted = rl.NewColor(140, 140, 160, 255)
)

// panelState mirrors the tunables shown in the control panel
type panelState struct {
	bounds  rl.Rectangle
	gravity float32
	damping float32
	styled  bool
	saveMsg string
}

// sync reads the current values back from the scene
func (p *panelState) sync(scene *physics.Scene) {
	p.gravity = scene.Gravity().Y
	p.damping = scene.Damping()
}

func (p *panelState) contains(point rl.Vector2) bool {
	return p.bounds.Width > 0 && rl.CheckCollisionPointRec(point, p.bounds)
}

func applyPanelStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgPanel))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextMuted))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorText))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorText))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

func (g *Game) drawPanel() {
	p := &g.panel
	if !p.styled {
		applyPanelStyle()
		p.styled = true
	}

	x := float32(rl.GetScreenWidth()) - panelWidth - panelMargin
	y := float32(panelMargin)
	p.bounds = rl.Rectangle{X: x, Y: y, Width: panelWidth, Height: panelHeight}
	gui.Panel(p.bounds, "Physics")

	x += 10
	y += 34
	labelW := float32(70)
	sliderW := float32(panelWidth - 20 - labelW - 40)
	row := func() rl.Rectangle {
		r := rl.Rectangle{X: x + labelW, Y: y, Width: sliderW, Height: rowHeight - 6}
		y += rowHeight
		return r
	}

	// Gravity (Y only)
	gravity := gui.Slider(row(), "Gravity", fmt.Sprintf("%.1f", p.gravity), p.gravity, -30, 0)
	if gravity != p.gravity {
		p.gravity = gravity
		g.engineScene.SetGravity(rl.Vector3{Y: gravity})
		if g.cpScene != nil {
			g.cpScene.SetGravity(rl.Vector3{Y: gravity})
		}
	}

	damping := gui.Slider(row(), "Damping", fmt.Sprintf("%.2f", p.damping), p.damping, 0, 2)
	if damping != p.damping {
		p.damping = damping
		g.engineScene.SetDamping(damping)
	}

	interval := g.emitter.Interval
	interval = gui.Slider(row(), "Emit every", fmt.Sprintf("%.2fs", interval), interval, 0.05, 2)
	g.emitter.Interval = interval
	g.cpEmitter.Interval = interval

	box := func(text string, checked bool) bool {
		r := rl.Rectangle{X: x, Y: y, Width: rowHeight - 6, Height: rowHeight - 6}
		y += rowHeight
		return gui.CheckBox(r, text, checked)
	}

	g.Paused = box("Paused", g.Paused)

	auto := box("Auto emit", g.emitter.Enabled)
	g.emitter.Enabled = auto
	g.cpEmitter.Enabled = auto

	useGrid := g.prefs.BroadPhase != config.BroadPhaseNone
	if wantGrid := box("Broad phase", useGrid); wantGrid != useGrid {
		if wantGrid {
			g.prefs.BroadPhase = config.BroadPhaseGrid
			if g.gpu != nil {
				g.prefs.BroadPhase = config.BroadPhaseGPU
			}
		} else {
			g.prefs.BroadPhase = config.BroadPhaseNone
		}
		g.engineScene.SetBroadPhase(g.broadPhase())
	}

	y += 6
	buttonW := float32(panelWidth-30) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonW, Height: rowHeight}, "Emit") {
		g.emit()
	}
	if gui.Button(rl.Rectangle{X: x + buttonW + 10, Y: y, Width: buttonW, Height: rowHeight}, "Reset") {
		if err := g.Reset(); err != nil {
			log.Printf("Scene: reset failed: %v", err)
		}
	}
	y += rowHeight + 8

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: panelWidth - 20, Height: rowHeight}, "Save preferences") {
		if err := config.Save(g.prefs); err != nil {
			p.saveMsg = "Save failed"
			log.Printf("Config: %v", err)
		} else {
			p.saveMsg = "Saved to " + config.PrefsPath
		}
	}
	y += rowHeight + 6

	if p.saveMsg != "" {
		rl.DrawText(p.saveMsg, int32(x), int32(y), 14, colorTextMuted)
	}
}
