package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestNewListenerFallbacks(t *testing.T) {
	l := NewListener(rl.Vector3{}, rl.Vector3{}, rl.Vector3{})

	if l.Forward != (rl.Vector3{Z: -1}) {
		t.Errorf("Expected -Z forward, got %v", l.Forward)
	}
	if l.Right != (rl.Vector3{X: 1}) {
		t.Errorf("Expected +X right, got %v", l.Right)
	}
}

func TestSpatializePan(t *testing.T) {
	// up x forward points along -X here
	l := NewListener(rl.Vector3{}, rl.Vector3{Z: -1}, rl.Vector3{Y: 1})

	_, panRight := l.Spatialize(rl.Vector3Scale(l.Right, 10), 1, 100)
	_, panLeft := l.Spatialize(rl.Vector3Scale(l.Right, -10), 1, 100)
	_, panCenter := l.Spatialize(rl.Vector3Scale(l.Forward, 10), 1, 100)

	if panRight != 1 {
		t.Errorf("Expected full right pan, got %f", panRight)
	}
	if panLeft != 0 {
		t.Errorf("Expected full left pan, got %f", panLeft)
	}
	if panCenter != 0.5 {
		t.Errorf("Expected center pan, got %f", panCenter)
	}
}

func TestSpatializeFalloff(t *testing.T) {
	l := NewListener(rl.Vector3{}, rl.Vector3{Z: -1}, rl.Vector3{Y: 1})

	near, _ := l.Spatialize(rl.Vector3{Z: -10}, 1, 100)
	far, _ := l.Spatialize(rl.Vector3{Z: -50}, 1, 100)
	gone, _ := l.Spatialize(rl.Vector3{Z: -150}, 1, 100)
	behind, _ := l.Spatialize(rl.Vector3{Z: 10}, 1, 100)

	if near <= far {
		t.Errorf("Nearer sounds should be louder: %f vs %f", near, far)
	}
	if gone != 0 {
		t.Errorf("Sounds beyond max distance should be silent, got %f", gone)
	}
	if behind >= near {
		t.Errorf("Sounds behind should be quieter: %f vs %f", behind, near)
	}
}

func TestImpactPitchAndLoudness(t *testing.T) {
	if ImpactPitch(0.25) <= ImpactPitch(2) {
		t.Error("Small objects should ring higher than large ones")
	}
	if ImpactPitch(0) != ImpactPitch(0.5) {
		t.Error("Non-positive sizes should use the default size")
	}
	if ImpactLoudness(100) != 1 {
		t.Errorf("Loudness should clamp at 1, got %f", ImpactLoudness(100))
	}
}

func TestImpactReader(t *testing.T) {
	impact := NewImpact(1000, 100, 1, 1)

	data, err := io.ReadAll(impact)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	// 0.25s at 1000 Hz, 8 bytes per stereo frame
	if len(data) != 250*8 {
		t.Fatalf("Expected %d bytes, got %d", 250*8, len(data))
	}

	var peak float32
	for i := 0; i < len(data); i += 8 {
		left := math.Float32frombits(binary.LittleEndian.Uint32(data[i:]))
		right := math.Float32frombits(binary.LittleEndian.Uint32(data[i+4:]))
		if left != 0 {
			t.Fatalf("Pan 1 should leave the left channel silent, got %f at frame %d", left, i/8)
		}
		if right > peak {
			peak = right
		}
	}
	if peak <= 0 || peak > 1 {
		t.Errorf("Expected right channel peak in (0,1], got %f", peak)
	}

	if n, err := impact.Read(make([]byte, 64)); n != 0 || err != io.EOF {
		t.Errorf("Expected EOF after the burst, got %d %v", n, err)
	}
}

func TestImpactReaderWholeFrames(t *testing.T) {
	impact := NewImpact(1000, 100, 1, 0.5)

	n, err := impact.Read(make([]byte, 13))
	if err != nil || n != 8 {
		t.Errorf("Expected one whole frame, got %d bytes err %v", n, err)
	}
}
