// Package cli implements the folio command-line interface.
//
// The commands expose the geometry and text-layout core for scripting and
// debugging: layout wraps text with a real font, transform prints a node's
// placement matrix, resize and rotate compute repositioning, and snap finds
// alignment corrections for a JSON scene.
//
// # Configuration
//
// Every command loads settings with folio.LoadConfig: built-in defaults, the
// TOML file given by --config, then FOLIO_* environment variables.
//
// # Logging
//
// Loggers are charmbracelet/log instances passed through context.Context.
// --verbose (-v) switches to debug level.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/folio"
	"github.com/phanxgames/folio/typeset"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// defaultFontSize is the size goregular is rasterized at when the config
// leaves font_size at zero.
const defaultFontSize = 16

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg        folio.Config
	configPath string
	fonts      []string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    folio.DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "folio",
		Short:        "Folio computes canvas geometry and text layout",
		Long:         `Folio is the geometry and text-layout core of an editable 2D canvas. This CLI runs its transforms, resize and rotation repositioning, snapping and text wrapping from the shell.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := folio.LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			if cfg.Debug {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			c.Logger.Debug("config loaded",
				"path", c.configPath,
				"snap_threshold_px", cfg.SnapThresholdPx,
				"negative_size", cfg.NegativeSize,
				"font", cfg.FontFamily)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().StringSliceVar(&c.fonts, "font", nil, "register a font as family=path (.fnt, .ttf or .otf)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.rotateCommand())
	root.AddCommand(c.snapCommand())

	return root
}

// newProvider builds a measurement provider with the built-in goregular and
// basic faces plus any --font registrations, defaulting to the configured
// family.
func (c *CLI) newProvider() (*typeset.Provider, error) {
	size := c.cfg.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	regular, err := typeset.GoRegular(size)
	if err != nil {
		return nil, err
	}

	p := typeset.NewProvider()
	p.Register("goregular", regular)
	p.Register("basic", typeset.BasicFont())

	for _, spec := range c.fonts {
		family, path, ok := strings.Cut(spec, "=")
		if !ok || family == "" || path == "" {
			return nil, fmt.Errorf("font %q: want family=path", spec)
		}
		face, err := loadTypeface(path)
		if err != nil {
			return nil, err
		}
		p.Register(family, face)
		c.Logger.Debug("font registered", "family", family, "path", path)
	}

	if c.cfg.FontFamily != "" {
		if err := p.SetDefault(c.cfg.FontFamily); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// loadTypeface loads a font file by extension.
func loadTypeface(path string) (typeset.Typeface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fnt":
		f, err := typeset.LoadBitmapFont(data)
		if err != nil {
			return nil, err
		}
		return f, nil
	case ".ttf", ".otf":
		f, err := typeset.LoadTTFFont(data)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("font %s: unsupported format", path)
}

// policy returns the negative size policy, preferring override when set.
func (c *CLI) policy(override string) (folio.NegativeSizePolicy, error) {
	if override != "" {
		return folio.ParseNegativeSizePolicy(override)
	}
	return c.cfg.Policy()
}

// readJSON decodes the file at path, or stdin when path is "" or "-".
func readJSON(cmd *cobra.Command, path string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", inputName(path), err)
	}
	return nil
}

func inputName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
