package game

import (
	"fmt"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-field/internal/config"
)

var black = colorful.Color{}

// gradientAt returns the colour of a top-to-bottom black-to-bg gradient at row y of h.
func gradientAt(bg colorful.Color, y, h int) colorful.Color {
	if h <= 1 {
		return black
	}
	ratio := float64(y) / float64(h-1)
	return black.BlendRgb(bg, ratio).Clamped()
}

// shade darkens c by factor f in Lab space (f=0 keeps c, f=1 gives black).
func shade(c colorful.Color, f float64) colorful.Color {
	return c.BlendLab(black, clamp01(f)).Clamped()
}

// hudHue returns the HUD hue in degrees after elapsed running time.
func hudHue(elapsed time.Duration) float64 {
	return math.Mod(elapsed.Seconds()*config.ColorShiftSpeed*360, 360)
}

func hudTint(elapsed time.Duration) colorful.Color {
	return colorful.Hsv(hudHue(elapsed), config.HUDSaturation, 1)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
