// Package audio plays synthesized impact sounds for contacts, panned and attenuated
// relative to a listener.
package audio

import (
	"fmt"
	"log"
	"sync"

	"github.com/chewxy/math32"
	"github.com/ebitengine/oto/v3"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	SampleRate = 44100

	// MaxVoices caps how many impacts ring at once; extra impacts are dropped
	MaxVoices = 16

	// minImpactSpeed is the slowest contact that makes a sound
	minImpactSpeed = 0.5
)

// Listener is where sounds are heard from
type Listener struct {
	Position rl.Vector3
	Forward  rl.Vector3
	Right    rl.Vector3
}

// NewListener builds a listener, deriving Right from up x forward.
// Degenerate vectors fall back to -Z forward and +X right.
func NewListener(pos, forward, up rl.Vector3) Listener {
	l := Listener{Position: pos}

	if fwdLen := rl.Vector3Length(forward); fwdLen > 0.001 {
		l.Forward = rl.Vector3Scale(forward, 1.0/fwdLen)
	} else {
		l.Forward = rl.Vector3{X: 0, Y: 0, Z: -1}
	}

	right := rl.Vector3CrossProduct(up, l.Forward)
	if rightLen := rl.Vector3Length(right); rightLen > 0.001 {
		l.Right = rl.Vector3Scale(right, 1.0/rightLen)
	} else {
		l.Right = rl.Vector3{X: 1, Y: 0, Z: 0}
	}
	return l
}

// Spatialize returns the volume and pan (0 left, 0.5 center, 1 right) for a source
func (l Listener) Spatialize(source rl.Vector3, volume, maxDistance float32) (float32, float32) {
	toSource := rl.Vector3Subtract(source, l.Position)
	distance := rl.Vector3Length(toSource)

	// Linear falloff
	if distance >= maxDistance {
		return 0, 0.5
	}
	volume *= 1.0 - distance/maxDistance

	if distance <= 0.001 {
		return volume, 0.5
	}

	direction := rl.Vector3Scale(toSource, 1.0/distance)
	pan := 0.5 + rl.Vector3DotProduct(direction, l.Right)*0.5
	pan = math32.Max(0, math32.Min(1, pan))

	// Sounds behind are slightly quieter
	if frontDot := rl.Vector3DotProduct(direction, l.Forward); frontDot < 0 {
		volume *= 0.7 + 0.3*math32.Abs(frontDot)
	}
	return volume, pan
}

// Player mixes impact sounds through oto
type Player struct {
	ctx *oto.Context

	mu          sync.Mutex
	listener    Listener
	voices      []*oto.Player
	Volume      float32
	MaxDistance float32
}

var (
	otoContext     *oto.Context
	otoContextOnce sync.Once
	otoContextErr  error
)

// oto allows a single context per process
func initOtoContext() error {
	otoContextOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
		}
		var ready chan struct{}
		otoContext, ready, otoContextErr = oto.NewContext(op)
		if otoContextErr != nil {
			otoContextErr = fmt.Errorf("create oto context: %w", otoContextErr)
			return
		}
		<-ready
		log.Printf("Audio: oto context ready (%d Hz)", SampleRate)
	})
	return otoContextErr
}

// NewPlayer opens the audio device
func NewPlayer() (*Player, error) {
	if err := initOtoContext(); err != nil {
		return nil, err
	}
	return &Player{
		ctx:         otoContext,
		listener:    NewListener(rl.Vector3Zero(), rl.Vector3{Z: -1}, rl.Vector3{Y: 1}),
		Volume:      0.6,
		MaxDistance: 80,
	}, nil
}

func (p *Player) SetListener(l Listener) {
	p.mu.Lock()
	p.listener = l
	p.mu.Unlock()
}

// Impact plays one hit at position. speed is the closing speed, size the struck object's radius.
func (p *Player) Impact(position rl.Vector3, speed, size float32) {
	if speed < minImpactSpeed {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.prune()
	if len(p.voices) >= MaxVoices {
		return
	}

	volume, pan := p.listener.Spatialize(position, p.Volume*ImpactLoudness(speed), p.MaxDistance)
	if volume <= 0.001 {
		return
	}

	voice := p.ctx.NewPlayer(NewImpact(SampleRate, ImpactPitch(size), volume, pan))
	voice.Play()
	p.voices = append(p.voices, voice)
}

// prune closes voices that finished playing. Caller holds mu.
func (p *Player) prune() {
	live := p.voices[:0]
	for _, v := range p.voices {
		if v.IsPlaying() {
			live = append(live, v)
			continue
		}
		if err := v.Close(); err != nil {
			log.Printf("Audio: close voice: %v", err)
		}
	}
	p.voices = live
}

// Voices returns how many impacts are still ringing
func (p *Player) Voices() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prune()
	return len(p.voices)
}

// Close stops every voice. The oto context stays alive for the process.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, v := range p.voices {
		v.Close()
	}
	p.voices = nil
}
