// Package termview renders a side view (XY projection) of a scene into a terminal with tcell.
package termview

import (
	"physics3d/internal/engine"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	runePlane  = '='
	runeSphere = 'o'
	runeAABB   = '#'

	// Terminal cells are roughly twice as tall as they are wide
	cellAspect = 0.5
)

var (
	stylePlane  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSphere = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleAABB   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

type cell struct {
	r     rune
	style tcell.Style
}

// View implements engine.Drawer on a character grid. Z is ignored.
type View struct {
	screen tcell.Screen

	// Center is the world XY point shown in the middle of the screen
	Center rl.Vector2
	// Scale is columns per world unit
	Scale float32

	width, height int
	cells         []cell
	status        string
}

var _ engine.Drawer = (*View)(nil)

func New(screen tcell.Screen) *View {
	v := &View{
		screen: screen,
		Center: rl.Vector2{X: 0, Y: 5},
		Scale:  2,
	}
	v.resize()
	return v
}

func (v *View) resize() {
	w, h := v.screen.Size()
	if w == v.width && h == v.height && v.cells != nil {
		return
	}
	v.width, v.height = w, h
	v.cells = make([]cell, w*h)
}

// Begin clears the buffer and picks up terminal resizes
func (v *View) Begin() {
	v.resize()
	for i := range v.cells {
		v.cells[i] = cell{}
	}
	v.status = ""
}

// SetStatus sets the text drawn on the top row
func (v *View) SetStatus(s string) {
	v.status = s
}

// Show copies the buffer to the screen
func (v *View) Show() {
	v.screen.Clear()
	for y := 0; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			c := v.cells[y*v.width+x]
			if c.r != 0 {
				v.screen.SetContent(x, y, c.r, nil, c.style)
			}
		}
	}
	for i, r := range v.status {
		if i >= v.width {
			break
		}
		v.screen.SetContent(i, 0, r, nil, styleStatus)
	}
	v.screen.Show()
}

// Rune returns what was drawn at a cell, or 0
func (v *View) Rune(x, y int) rune {
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return 0
	}
	return v.cells[y*v.width+x].r
}

func (v *View) Size() (int, int) {
	return v.width, v.height
}

// ToCell maps a world point to a cell column and row
func (v *View) ToCell(p rl.Vector3) (int, int) {
	x := (p.X-v.Center.X)*v.Scale + float32(v.width)/2
	y := float32(v.height)/2 - (p.Y-v.Center.Y)*v.Scale*cellAspect
	return int(math32.Floor(x)), int(math32.Floor(y))
}

// toWorld returns the world XY point at the middle of a cell
func (v *View) toWorld(x, y int) (float32, float32) {
	wx := (float32(x)+0.5-float32(v.width)/2)/v.Scale + v.Center.X
	wy := (float32(v.height)/2-(float32(y)+0.5))/(v.Scale*cellAspect) + v.Center.Y
	return wx, wy
}

func (v *View) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return
	}
	v.cells[y*v.width+x] = cell{r: r, style: style}
}

// fill marks every cell whose center is inside
func (v *View) fill(x0, y0, x1, y1 int, inside func(wx, wy float32) bool, r rune, style tcell.Style) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, v.width-1), min(y1, v.height-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if inside(v.toWorld(x, y)) {
				v.set(x, y, r, style)
			}
		}
	}
}

func (v *View) DrawPlane(origin, normal rl.Vector3) {
	n := rl.Vector2{X: normal.X, Y: normal.Y}
	nLen := math32.Sqrt(n.X*n.X + n.Y*n.Y)
	// Seen edge-on only if the normal has an XY component
	if nLen < 1e-6 {
		return
	}
	n.X /= nLen
	n.Y /= nLen

	// Half a cell in world units along the normal
	halfX := 0.5 / v.Scale
	halfY := 0.5 / (v.Scale * cellAspect)
	tolerance := math32.Abs(n.X)*halfX + math32.Abs(n.Y)*halfY

	v.fill(0, 0, v.width-1, v.height-1, func(wx, wy float32) bool {
		d := (wx-origin.X)*n.X + (wy-origin.Y)*n.Y
		return math32.Abs(d) <= tolerance
	}, runePlane, stylePlane)
}

func (v *View) DrawSphere(center rl.Vector3, radius float32) {
	minX, maxY := v.ToCell(rl.Vector3{X: center.X - radius, Y: center.Y - radius})
	maxX, minY := v.ToCell(rl.Vector3{X: center.X + radius, Y: center.Y + radius})

	drawn := false
	v.fill(minX, minY, maxX, maxY, func(wx, wy float32) bool {
		dx, dy := wx-center.X, wy-center.Y
		if dx*dx+dy*dy <= radius*radius {
			drawn = true
			return true
		}
		return false
	}, runeSphere, styleSphere)

	// Tiny spheres still show up as a single cell
	if !drawn {
		x, y := v.ToCell(center)
		v.set(x, y, runeSphere, styleSphere)
	}
}

func (v *View) DrawAABB(center, extents rl.Vector3) {
	minX, maxY := v.ToCell(rl.Vector3{X: center.X - extents.X, Y: center.Y - extents.Y})
	maxX, minY := v.ToCell(rl.Vector3{X: center.X + extents.X, Y: center.Y + extents.Y})

	drawn := false
	v.fill(minX, minY, maxX, maxY, func(wx, wy float32) bool {
		if math32.Abs(wx-center.X) <= extents.X && math32.Abs(wy-center.Y) <= extents.Y {
			drawn = true
			return true
		}
		return false
	}, runeAABB, styleAABB)

	if !drawn {
		x, y := v.ToCell(center)
		v.set(x, y, runeAABB, styleAABB)
	}
}
