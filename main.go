// Command particle-field shows the animated particle-field sections of the
// landing page in a resizable window.
//
// Usage:
//
//	particle-field [config_file]
//
// The optional argument is a TOML config file overlaying the defaults in
// internal/config. Presets in the same format can also be opened from the
// window's "Open Preset" button.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/game"
)

const usage = `Usage: particle-field [config_file]

The first argument is optional and is the path to a TOML config file.
Without it the three default sections (hero, about, achievements) run.
`

func main() {
	conf := config.Default()
	switch len(os.Args) {
	case 1:
	case 2:
		loaded, err := config.Load(os.Args[1])
		if err != nil {
			log.Printf("Config %s: %v; using defaults", os.Args[1], err)
			break
		}
		conf = loaded
	default:
		fmt.Fprintf(os.Stderr, "%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
		os.Exit(2)
	}

	ebiten.SetWindowSize(conf.Width, conf.Height)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.NewGame(conf)
	defer g.Close()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
