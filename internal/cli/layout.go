package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/folio"
)

type layoutOptions struct {
	family     string
	size       float64
	lineHeight float64
	anchor     string
	valign     string
	width      float64
	maxWidth   float64
	height     float64
	maxHeight  float64
	maxLines   int
	padding    float64
	jsonOut    bool
}

type lineOutput struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Text   string  `json:"text"`
}

type layoutOutput struct {
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Baseline    float64      `json:"baseline"`
	OffsetX     float64      `json:"offsetX"`
	OffsetY     float64      `json:"offsetY"`
	HasOverflow bool         `json:"hasOverflow"`
	Lines       []lineOutput `json:"lines"`
}

// layoutCommand creates the layout command for wrapping text.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout [text]",
		Short: "Wrap, truncate and align a block of text",
		Long: `Wrap, truncate and align a block of text.

The text is taken from the argument, or read from stdin when no argument is
given. Lines are measured with the configured font family (goregular by
default; basic and any --font registrations are also available).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSuffix(string(data), "\n")
			}
			return c.runLayout(cmd, text, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.family, "family", "f", "", "font family (default: config font_family)")
	cmd.Flags().Float64VarP(&opts.size, "size", "s", 0, "font size in pixels (default: config font_size)")
	cmd.Flags().Float64Var(&opts.lineHeight, "line-height", 1, "line height as a multiple of the font size")
	cmd.Flags().StringVar(&opts.anchor, "anchor", "start", "horizontal alignment: start, middle, end")
	cmd.Flags().StringVar(&opts.valign, "valign", "top", "vertical alignment: top, middle, bottom")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 0, "explicit box width")
	cmd.Flags().Float64Var(&opts.maxWidth, "max-width", 0, "wrap width when no explicit width is set")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "explicit box height")
	cmd.Flags().Float64Var(&opts.maxHeight, "max-height", 0, "drop lines below this height")
	cmd.Flags().IntVar(&opts.maxLines, "max-lines", 0, "keep at most this many lines")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "inset on all four sides")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the measurement as JSON")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, text string, opts layoutOptions) error {
	logger := loggerFromContext(cmd.Context())

	anchor, err := folio.ParseTextAnchor(opts.anchor)
	if err != nil {
		return err
	}
	valign, err := folio.ParseVerticalAlign(opts.valign)
	if err != nil {
		return err
	}
	size := opts.size
	if size == 0 {
		size = c.cfg.FontSize
	}

	p, err := c.newProvider()
	if err != nil {
		return fmt.Errorf("initialize fonts: %w", err)
	}

	run := folio.TextRun{
		Text:          text,
		FontFamily:    opts.family,
		FontSize:      size,
		LineHeight:    opts.lineHeight,
		Anchor:        anchor,
		VerticalAlign: valign,
		Width:         opts.width,
		MaxWidth:      opts.maxWidth,
		Height:        opts.height,
		MaxHeight:     opts.maxHeight,
		MaxLines:      opts.maxLines,
		Padding:       opts.padding,
	}

	start := time.Now()
	m, err := folio.LayoutText(run, p)
	if errors.Is(err, folio.ErrMeasurementUnavailable) {
		logger.Warn("measurement unavailable", "err", err)
	}
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	logger.Debug("layout complete",
		"lines", len(m.Lines),
		"overflow", m.HasOverflow,
		"elapsed", time.Since(start).Round(time.Microsecond))

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		return writeJSON(out, toLayoutOutput(m))
	}
	printMeasurement(out, m)
	return nil
}

func toLayoutOutput(m folio.Measurement) layoutOutput {
	lines := make([]lineOutput, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = lineOutput{Left: l.Left, Top: l.Top, Width: l.Width, Height: l.Height, Text: l.Text}
	}
	return layoutOutput{
		Width:       m.Width,
		Height:      m.Height,
		Baseline:    m.Baseline,
		OffsetX:     m.OffsetX,
		OffsetY:     m.OffsetY,
		HasOverflow: m.HasOverflow,
		Lines:       lines,
	}
}
