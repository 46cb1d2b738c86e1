package folio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "folio.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.SnapThresholdPx != 5 {
		t.Errorf("SnapThresholdPx = %v, want 5", cfg.SnapThresholdPx)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
snap_threshold_px = 8
snap_enabled = false
negative_size = "flip"
font_family = "basic"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SnapThresholdPx != 8 || cfg.SnapEnabled || cfg.FontFamily != "basic" {
		t.Errorf("cfg = %+v", cfg)
	}
	if p, _ := cfg.Policy(); p != NegativeSizeFlip {
		t.Errorf("policy = %v, want flip", p)
	}
	// Keys absent from the file keep their defaults.
	if cfg.FontSize != 16 {
		t.Errorf("FontSize = %v, want 16", cfg.FontSize)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "snap_threshold_px = 8\n")
	t.Setenv("FOLIO_SNAP_THRESHOLD_PX", "12")
	t.Setenv("FOLIO_NEGATIVE_SIZE", "clamp")
	t.Setenv("FOLIO_DEBUG", "true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SnapThresholdPx != 12 {
		t.Errorf("SnapThresholdPx = %v, want 12", cfg.SnapThresholdPx)
	}
	if cfg.NegativeSize != "clamp" || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("malformed toml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "snap_threshold_px = [\n"))
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("err = %v, want ErrInvalidConfiguration", err)
		}
	})
	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("FOLIO_FONT_SIZE", "large")
		if _, err := LoadConfig(""); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("err = %v, want ErrInvalidConfiguration", err)
		}
	})
	t.Run("unknown policy", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `negative_size = "mirror"`))
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("err = %v, want ErrInvalidConfiguration", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.SnapThresholdPx = -1 }},
		{"NaN radius", func(c *Config) { c.HandleRadiusPx = math.NaN() }},
		{"infinite dead zone", func(c *Config) { c.DragDeadZone = math.Inf(1) }},
		{"negative font size", func(c *Config) { c.FontSize = -3 }},
		{"bad policy", func(c *Config) { c.NegativeSize = "sideways" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Validate() = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}
