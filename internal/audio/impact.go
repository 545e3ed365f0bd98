package audio

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/chewxy/math32"
)

const (
	impactDuration = 0.25 // seconds
	impactDecay    = 18.0 // per second
)

// ImpactPitch maps an object size to a tone: small objects ring higher
func ImpactPitch(size float32) float32 {
	if size <= 0 {
		size = 0.5
	}
	return math32.Max(110, math32.Min(1760, 440/size))
}

// ImpactLoudness maps a closing speed to a 0..1 gain
func ImpactLoudness(speed float32) float32 {
	return math32.Min(1, speed/15)
}

// Impact is a decaying sine burst rendered as stereo float32 little-endian frames
type Impact struct {
	sampleRate int
	frequency  float32
	left       float32
	right      float32

	frame  int
	frames int
}

// NewImpact creates a burst at frequency Hz, with volume split between channels by pan
func NewImpact(sampleRate int, frequency, volume, pan float32) *Impact {
	return &Impact{
		sampleRate: sampleRate,
		frequency:  frequency,
		left:       volume * (1 - pan),
		right:      volume * pan,
		frames:     int(float32(sampleRate) * impactDuration),
	}
}

// Read fills buf with whole frames (8 bytes each) and returns io.EOF when the burst is over
func (r *Impact) Read(buf []byte) (int, error) {
	if r.frame >= r.frames {
		return 0, io.EOF
	}

	n := 0
	for n+8 <= len(buf) && r.frame < r.frames {
		t := float32(r.frame) / float32(r.sampleRate)
		sample := math32.Sin(2*math.Pi*r.frequency*t) * math32.Exp(-impactDecay*t)

		binary.LittleEndian.PutUint32(buf[n:], math.Float32bits(sample*r.left))
		binary.LittleEndian.PutUint32(buf[n+4:], math.Float32bits(sample*r.right))
		n += 8
		r.frame++
	}
	return n, nil
}
