// Package config persists application preferences as JSON.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// PrefsPath is relative to the process working directory
const PrefsPath = "config/physics.json"

// Prefs are the application settings persisted between runs
type Prefs struct {
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`
	TargetFPS    int `json:"target_fps"`

	// FixedStep > 0 steps the simulation in fixed increments instead of the frame delta
	FixedStep float32 `json:"fixed_step,omitempty"`
	// MaxStep clamps a single frame delta so a stalled window does not tunnel everything
	MaxStep float32 `json:"max_step"`

	AudioEnabled bool    `json:"audio_enabled"`
	AudioVolume  float32 `json:"audio_volume"`

	BroadPhase  string  `json:"broad_phase"` // "none", "grid" or "gpu"
	CellSize    float32 `json:"cell_size"`
	GPUMinCount int     `json:"gpu_min_count"`

	ScenePath string `json:"scene_path,omitempty"`
	ShowCP    bool   `json:"show_cp"`
	EmitSeed  int64  `json:"emit_seed"`
	ShowPanel bool   `json:"show_panel"`
}

const (
	BroadPhaseNone = "none"
	BroadPhaseGrid = "grid"
	BroadPhaseGPU  = "gpu"
)

func Default() Prefs {
	return Prefs{
		WindowWidth:  1600,
		WindowHeight: 900,
		TargetFPS:    60,
		MaxStep:      0.1,
		AudioEnabled: true,
		AudioVolume:  0.6,
		BroadPhase:   BroadPhaseGrid,
		CellSize:     5,
		GPUMinCount:  750,
		ShowCP:       true,
		EmitSeed:     1,
		ShowPanel:    true,
	}
}

// Load reads preferences from PrefsPath. A missing file yields Default() with no error;
// a malformed one yields Default() and the parse error.
func Load() (Prefs, error) {
	return LoadFrom(PrefsPath)
}

func LoadFrom(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read prefs: %w", err)
	}

	// Fields missing from the file keep their defaults
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("parse prefs: %w", err)
	}
	p.sanitize()
	return p, nil
}

func (p *Prefs) sanitize() {
	d := Default()
	if p.WindowWidth <= 0 || p.WindowHeight <= 0 {
		p.WindowWidth, p.WindowHeight = d.WindowWidth, d.WindowHeight
	}
	if p.TargetFPS <= 0 {
		p.TargetFPS = d.TargetFPS
	}
	if p.MaxStep <= 0 {
		p.MaxStep = d.MaxStep
	}
	if p.FixedStep < 0 {
		p.FixedStep = 0
	}
	if p.AudioVolume < 0 || p.AudioVolume > 1 {
		p.AudioVolume = d.AudioVolume
	}
	if p.CellSize <= 0 {
		p.CellSize = d.CellSize
	}
	switch p.BroadPhase {
	case BroadPhaseNone, BroadPhaseGrid, BroadPhaseGPU:
	default:
		log.Printf("Config: unknown broad phase %q, using %q", p.BroadPhase, d.BroadPhase)
		p.BroadPhase = d.BroadPhase
	}
}

// Save writes preferences to PrefsPath, creating the config directory if needed
func Save(p Prefs) error {
	return SaveTo(PrefsPath, p)
}

func SaveTo(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Step splits a frame delta into simulation steps.
// Without a fixed step the whole (clamped) delta is one step.
func (p Prefs) Step(frameDelta float32, accumulator *float32) []float32 {
	if frameDelta > p.MaxStep {
		frameDelta = p.MaxStep
	}
	if frameDelta <= 0 {
		return nil
	}
	if p.FixedStep <= 0 {
		return []float32{frameDelta}
	}

	*accumulator += frameDelta
	var steps []float32
	for *accumulator >= p.FixedStep {
		*accumulator -= p.FixedStep
		steps = append(steps, p.FixedStep)
	}
	return steps
}
