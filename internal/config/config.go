// Package config loads settings from built-in defaults, an optional TOML
// file, and EXTENT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all user-tunable settings.
type Config struct {
	Window    Window    `toml:"window"`
	Rectangle Rectangle `toml:"rectangle"`
	Handles   Handles   `toml:"handles"`
	HTTP      HTTP      `toml:"http"`
}

type Window struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Lon        float64 `toml:"lon"` // initial view center
	Lat        float64 `toml:"lat"`
	Resolution float64 `toml:"resolution"` // initial map units per pixel
	Accent     string  `toml:"accent"`     // overlay color, "#rrggbb"
}

// Rectangle is the initial rectangle, centered on the initial view.
type Rectangle struct {
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	AngleDegrees float64 `toml:"angle"`
}

// Handles sets the overlay handle sizes in pixels and the rotation snap step.
type Handles struct {
	SizePixels      float64 `toml:"size"`
	RotateGapPixels float64 `toml:"rotate_gap"`
	RotateRadius    float64 `toml:"rotate_radius"`
	LinePixels      float64 `toml:"line"`
	SnapDegrees     float64 `toml:"snap"`
}

type HTTP struct {
	Addr string `toml:"addr"` // empty disables the properties server
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{
			Width:      1280,
			Height:     960,
			Lon:        2.349014,
			Lat:        48.852969,
			Resolution: 5,
			Accent:     "#1f6feb",
		},
		Rectangle: Rectangle{Width: 2000, Height: 1000},
		Handles: Handles{
			SizePixels:      10,
			RotateGapPixels: 30,
			RotateRadius:    7,
			LinePixels:      2,
			SnapDegrees:     15,
		},
		HTTP: HTTP{Addr: "127.0.0.1:8765"},
	}
}

// Load reads path (if non-empty and present) over the defaults and then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	floats := map[string]*float64{
		"EXTENT_LON":         &c.Window.Lon,
		"EXTENT_LAT":         &c.Window.Lat,
		"EXTENT_RESOLUTION":  &c.Window.Resolution,
		"EXTENT_RECT_WIDTH":  &c.Rectangle.Width,
		"EXTENT_RECT_HEIGHT": &c.Rectangle.Height,
		"EXTENT_RECT_ANGLE":  &c.Rectangle.AngleDegrees,
		"EXTENT_SNAP":        &c.Handles.SnapDegrees,
	}
	for key, dst := range floats {
		value, ok := lookup(key)
		if !ok || value == "" {
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value '%s': %w", key, value, err)
		}
		*dst = v
	}
	if value, ok := lookup("EXTENT_HTTP_ADDR"); ok {
		c.HTTP.Addr = value // may be empty, to disable
	}
	if value, ok := lookup("EXTENT_ACCENT"); ok && value != "" {
		c.Window.Accent = value
	}
	return nil
}

// Validate rejects settings the editor cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Window.Resolution <= 0:
		return fmt.Errorf("resolution %v must be positive", c.Window.Resolution)
	case c.Window.Lon < -180 || c.Window.Lon > 180 || c.Window.Lat < -85 || c.Window.Lat > 85:
		return fmt.Errorf("initial center %.6f, %.6f is out of range", c.Window.Lon, c.Window.Lat)
	case c.Rectangle.Width <= 0 || c.Rectangle.Height <= 0:
		return fmt.Errorf("rectangle size %vx%v must be positive", c.Rectangle.Width, c.Rectangle.Height)
	case c.Handles.SizePixels <= 0 || c.Handles.RotateRadius <= 0 || c.Handles.LinePixels <= 0:
		return fmt.Errorf("handle sizes must be positive")
	case c.Handles.SnapDegrees <= 0 || c.Handles.SnapDegrees > 180:
		return fmt.Errorf("snap step %v° must be within (0, 180]", c.Handles.SnapDegrees)
	}
	return nil
}
