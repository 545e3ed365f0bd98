// Terminal viewer: runs a scene and draws its side view with tcell
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"physics3d/internal/audio"
	"physics3d/internal/engine"
	"physics3d/internal/layout"
	"physics3d/internal/physics"
	"physics3d/internal/scenefile"
	"physics3d/internal/termview"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	frameTime    = 16 * time.Millisecond // ~60 FPS
	hitCooldown  = 40 * time.Millisecond
	hitDuration  = 60 * time.Millisecond
	hitMinSpeed  = 1.0
	panStep      = 2.0
	zoomFactor   = 1.25
	wallDistance = 20
)

type viewer struct {
	screen tcell.Screen
	view   *termview.View

	scenePath string
	scene     *physics.Scene
	emitter   *layout.Emitter
	paused    bool

	audioInit bool
	muted     bool
	soundID   engine.ListenerID
	lastHit   time.Time
	hits      int
}

func main() {
	scenePath := flag.String("scene", "", "scene file (.json, .yaml); default is a built-in drop")
	quiet := flag.Bool("quiet", false, "disable hit sounds")
	flag.Parse()

	// tcell owns the terminal; keep log output out of it
	log.SetOutput(os.Stderr)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}

	v := &viewer{
		screen:    screen,
		view:      termview.New(screen),
		scenePath: *scenePath,
	}
	if !*quiet {
		if err := v.initAudio(); err != nil {
			// Non-fatal, runs without sound
			log.Printf("Audio: initialization failed: %v", err)
		}
	}

	if err := v.reset(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to load scene: %v\n", err)
		os.Exit(1)
	}

	defer v.cleanup()
	v.run()
}

func (v *viewer) reset() error {
	var scene *physics.Scene
	if v.scenePath != "" {
		sf, err := scenefile.Load(v.scenePath)
		if err != nil {
			return err
		}
		scene = sf.NewScene()
	} else {
		scene = physics.NewScene(physics.DefaultConfig())
		scene.AddPlaneStatic(rl.Vector3{Y: 1}, 0)
		scene.AddPlaneStatic(rl.Vector3{X: 1}, -wallDistance)
		scene.AddPlaneStatic(rl.Vector3{X: -1}, -wallDistance)
		layout.Spheres(scene, 9, 3)
		layout.AABBs(scene, 4, 3)
	}

	scene.OnContact.AddListener(v.countHit)
	v.soundID = 0
	if v.audioInit && !v.muted {
		v.soundID = scene.OnContact.AddListener(v.playHit)
	}
	scene.SetDrawer(v.view)
	scene.SetBroadPhase(physics.NewGrid(physics.DefaultCellSize))

	v.scene = scene
	v.emitter = layout.NewEmitter(time.Now().UnixNano())
	v.emitter.Enabled = false
	return nil
}

func (v *viewer) initAudio() error {
	sampleRate := beep.SampleRate(audio.SampleRate)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	v.audioInit = true
	return nil
}

func (v *viewer) countHit(physics.Contact) {
	v.hits++
}

// toggleSound subscribes or unsubscribes the hit sound on the live scene
func (v *viewer) toggleSound() {
	if !v.audioInit {
		return
	}
	v.muted = !v.muted
	if v.muted {
		v.scene.OnContact.RemoveListener(v.soundID)
		v.soundID = 0
	} else {
		v.soundID = v.scene.OnContact.AddListener(v.playHit)
	}
}

func (v *viewer) playHit(c physics.Contact) {
	if c.RelativeSpeed < hitMinSpeed || time.Since(v.lastHit) < hitCooldown {
		return
	}
	v.lastHit = time.Now()

	size := physics.BoundsOf(c.B).Radius
	if c.B.IsStatic() {
		size = physics.BoundsOf(c.A).Radius
	}

	sampleRate := beep.SampleRate(audio.SampleRate)
	sine, err := generators.SineTone(sampleRate, float64(audio.ImpactPitch(size)))
	if err != nil {
		return
	}
	loudness := float64(audio.ImpactLoudness(c.RelativeSpeed))
	speaker.Play(&effects.Volume{
		Streamer: beep.Take(sampleRate.N(hitDuration), sine),
		Base:     2,
		Volume:   math.Log2(loudness),
	})
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.view.Center.X -= panStep
		case tcell.KeyRight:
			v.view.Center.X += panStep
		case tcell.KeyUp:
			v.view.Center.Y += panStep
		case tcell.KeyDown:
			v.view.Center.Y -= panStep
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			case 'e':
				v.emitter.Emit(v.scene)
			case 'E':
				v.emitter.Enabled = !v.emitter.Enabled
			case 'm':
				v.toggleSound()
			case 'r':
				if err := v.reset(); err != nil {
					log.Printf("Scene: reset failed: %v", err)
				}
			case '+', '=':
				v.view.Scale *= zoomFactor
			case '-':
				v.view.Scale /= zoomFactor
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) step(deltaTime float32) {
	if v.paused {
		return
	}
	v.emitter.Update(v.scene, deltaTime)
	v.scene.Update(deltaTime)
}

func (v *viewer) draw(frame time.Duration) {
	v.view.Begin()
	v.scene.Draw()

	state := "running"
	if v.paused {
		state = "paused"
	}
	v.view.SetStatus(fmt.Sprintf(" %d objects | %d contacts | %s | %.1fms | space pause  e emit  E auto  r reset  m mute  +/- zoom  arrows pan  q quit ",
		v.scene.Len(), v.hits, state, float64(frame.Microseconds())/1000))
	v.view.Show()
}

func (v *viewer) run() {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			deltaTime := float32(now.Sub(last).Seconds())
			last = now
			if deltaTime > 0.1 {
				deltaTime = 0.1
			}

			start := time.Now()
			v.step(deltaTime)
			v.draw(time.Since(start))
		}
	}
}

func (v *viewer) cleanup() {
	if v.audioInit {
		speaker.Close()
	}
	v.screen.Fini()
}
