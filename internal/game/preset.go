package game

import (
	"errors"
	"log"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-field/internal/config"
)

// openPresetDialog asks for a TOML preset and restarts every section with it.
// Cancelling the dialog is not an error.
func (g *Game) openPresetDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Field Preset"),
		zenity.FileFilters{{
			Name:     "Preset",
			Patterns: []string{"*.toml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return g.loadPreset(filename)
}

func (g *Game) loadPreset(path string) error {
	conf, err := config.Load(path)
	if err != nil {
		return err
	}
	log.Printf("Loaded preset %s (%d sections)", path, len(conf.Sections))
	g.apply(conf)
	return nil
}
