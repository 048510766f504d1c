package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	WindowWidth     = 1280
	WindowHeight    = 720
	SectionKeysHint = "Tab or 1-9"
	WindowTitle     = "Particle Field - " + SectionKeysHint + ": section, Space: pause, Esc/Q: quit"

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 50

	// Field parameters
	AccentHex    = "#2dd4bf" // teal-400
	TrailAlpha   = 0.05
	LinkDistance = 120.0

	// Section backgrounds fade from black to this colour
	BackgroundHex = "#172554" // blue-950

	// Title entrance spring: stiffness 100, damping 10, mass 1
	TitleFrequency = 10.0
	TitleDamping   = 0.5

	// HUD hue turns per second of running time
	ColorShiftSpeed = 0.125
	HUDSaturation   = 0.35
)

var ErrInvalid = errors.New("config: invalid")

// Section describes one animated page section and its particle field.
type Section struct {
	Name       string  `toml:"name"`
	Title      string  `toml:"title"`
	Particles  int     `toml:"particles"`
	BaseAlpha  float64 `toml:"base_alpha"`
	Background string  `toml:"background"`
}

// Config holds the parameters of a run. Keys absent from a loaded file keep their defaults.
type Config struct {
	Width        int       `toml:"width"`
	Height       int       `toml:"height"`
	Accent       string    `toml:"accent"`
	TrailAlpha   float64   `toml:"trail_alpha"`
	LinkDistance float64   `toml:"link_distance"`
	Strategy     string    `toml:"strategy"` // auto, pairs or grid
	Seed         uint64    `toml:"seed"`     // 0 seeds every field from the clock
	Sections     []Section `toml:"sections"`
}

// DefaultSections are the three animated sections of the landing page.
func DefaultSections() []Section {
	return []Section{
		{Name: "hero", Title: "AI Solutions", Particles: 250, BaseAlpha: 0.2, Background: BackgroundHex},
		{Name: "about", Title: "About Our AI Solutions", Particles: 150, BaseAlpha: 0.1, Background: BackgroundHex},
		{Name: "achievements", Title: "Our Achievements", Particles: 150, BaseAlpha: 0.1, Background: BackgroundHex},
	}
}

func Default() *Config {
	return &Config{
		Width:        WindowWidth,
		Height:       WindowHeight,
		Accent:       AccentHex,
		TrailAlpha:   TrailAlpha,
		LinkDistance: LinkDistance,
		Strategy:     "auto",
		Sections:     DefaultSections(),
	}
}

// Load overlays the TOML file at path on the defaults. Sections listed in the
// file replace the default sections entirely.
func Load(path string) (*Config, error) {
	conf := Default()
	conf.Sections = nil

	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}

	if len(conf.Sections) == 0 {
		conf.Sections = DefaultSections()
	}
	for i := range conf.Sections {
		if conf.Sections[i].Background == "" {
			conf.Sections[i].Background = BackgroundHex
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate reports the first invalid parameter.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if _, err := ParseColor(c.Accent); err != nil {
		return err
	}
	if c.TrailAlpha <= 0 || c.TrailAlpha > 1 {
		return fmt.Errorf("%w: trail_alpha %g outside (0,1]", ErrInvalid, c.TrailAlpha)
	}
	if c.LinkDistance <= 0 {
		return fmt.Errorf("%w: link_distance %g", ErrInvalid, c.LinkDistance)
	}
	switch c.Strategy {
	case "", "auto", "pairs", "grid":
	default:
		return fmt.Errorf("%w: strategy %q", ErrInvalid, c.Strategy)
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Sections))
	for _, s := range c.Sections {
		if s.Name == "" {
			return fmt.Errorf("%w: section without a name", ErrInvalid)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalid, s.Name)
		}
		seen[s.Name] = true
		if s.Particles <= 0 {
			return fmt.Errorf("%w: section %q: particles %d", ErrInvalid, s.Name, s.Particles)
		}
		if s.BaseAlpha < 0 || s.BaseAlpha > 1 {
			return fmt.Errorf("%w: section %q: base_alpha %g outside [0,1]", ErrInvalid, s.Name, s.BaseAlpha)
		}
		if _, err := ParseColor(s.Background); err != nil {
			return fmt.Errorf("section %q: %w", s.Name, err)
		}
	}
	return nil
}

// ParseColor parses a #rrggbb colour.
func ParseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: colour %q: %v", ErrInvalid, hex, err)
	}
	return c, nil
}
