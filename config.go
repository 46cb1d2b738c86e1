package folio

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix prefixes every environment override, e.g. FOLIO_SNAP_THRESHOLD_PX.
const envPrefix = "FOLIO"

// Config holds the host-side editing settings.
type Config struct {
	// SnapThresholdPx is how close, in screen pixels, a guide must be to
	// capture a moving node.
	SnapThresholdPx float64 `toml:"snap_threshold_px" envconfig:"SNAP_THRESHOLD_PX"`
	SnapEnabled     bool    `toml:"snap_enabled" envconfig:"SNAP_ENABLED"`

	// NegativeSize is "allow", "clamp" or "flip".
	NegativeSize string `toml:"negative_size" envconfig:"NEGATIVE_SIZE"`

	HandleRadiusPx float64 `toml:"handle_radius_px" envconfig:"HANDLE_RADIUS_PX"`
	DragDeadZone   float64 `toml:"drag_dead_zone" envconfig:"DRAG_DEAD_ZONE"`

	// FontFamily and FontSize are the defaults for text created without them.
	FontFamily string  `toml:"font_family" envconfig:"FONT_FAMILY"`
	FontSize   float64 `toml:"font_size" envconfig:"FONT_SIZE"`

	Debug bool `toml:"debug" envconfig:"DEBUG"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		SnapThresholdPx: 5,
		SnapEnabled:     true,
		NegativeSize:    NegativeSizeAllow.String(),
		HandleRadiusPx:  defaultHandleRadius,
		DragDeadZone:    defaultDragDeadZone,
		FontFamily:      "goregular",
		FontSize:        16,
	}
}

// LoadConfig starts from DefaultConfig, decodes the TOML file at path over
// it (a missing file is not an error, an empty path skips the file), applies
// FOLIO_* environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("folio: read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("folio: parse config %s: %w: %w", path, ErrInvalidConfiguration, err)
			}
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("folio: config environment: %w: %w", ErrInvalidConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unknown policies and negative or non-finite distances.
func (c Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("folio: config: %w", err)
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"snap_threshold_px", c.SnapThresholdPx},
		{"handle_radius_px", c.HandleRadiusPx},
		{"drag_dead_zone", c.DragDeadZone},
		{"font_size", c.FontSize},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("folio: config: %w", invalidConfig("%s must be a non-negative number, got %v", f.name, f.v))
		}
	}
	return nil
}

// Policy parses NegativeSize.
func (c Config) Policy() (NegativeSizePolicy, error) {
	return ParseNegativeSizePolicy(c.NegativeSize)
}
