package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"physics3d/internal/config"
	"physics3d/internal/game"
	"strings"
)

func main() {
	scenePath := flag.String("scene", "", "scene file (.json, .yaml) to load instead of the default table")
	useGPU := flag.Bool("gpu", false, "run the broad phase on the GPU when there are enough objects")
	noAudio := flag.Bool("mute", false, "disable impact sounds")
	flag.Parse()

	// Resolve the scene path before changing directory
	if *scenePath != "" {
		if abs, err := filepath.Abs(*scenePath); err == nil {
			*scenePath = abs
		}
	}

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	prefs, err := config.Load()
	if err != nil {
		log.Printf("Config: %v, using defaults", err)
	}

	g := game.New(prefs, game.Options{
		ScenePath: *scenePath,
		GPU:       *useGPU,
		NoAudio:   *noAudio,
	})
	g.Run()
}
