package folio

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// nbsp marks whitespace that must not be used as a wrap opportunity.
const nbsp = '\u00a0'

// MinTextExtent is the smallest inner width or height a resize gives a text
// box.
const MinTextExtent = 1.0

// defaultLineHeight is the line height multiplier used when TextRun.LineHeight is 0.
const defaultLineHeight = 1.0

// TextRun is the content and formatting of a text node. Zero values mean
// "unset" for every optional constraint, so a box of zero width or height
// cannot be expressed: such a run fits its content instead. Code that
// shrinks a run (Node.ResizeText) never writes 0, it floors at
// MinTextExtent plus the padding.
type TextRun struct {
	Text          string
	FontFamily    string
	FontSize      float64
	LineHeight    float64 // multiplier of FontSize; 0 = 1
	Anchor        TextAnchor
	VerticalAlign VerticalAlign

	Width     float64 // explicit box width, 0 = fit content
	MaxWidth  float64 // wrap width when Width is unset, 0 = no wrapping
	Height    float64 // explicit box height, 0 = fit content
	MaxHeight float64 // lines whose bottom exceeds this are dropped, 0 = no limit
	MaxLines  int     // 0 = no limit
	Padding   float64 // inset applied on all four sides
}

// Validate checks enum values and numeric fields.
func (r TextRun) Validate() error {
	if err := checkFinite("text run",
		[]string{"fontSize", "lineHeight", "width", "maxWidth", "height", "maxHeight", "padding"},
		r.FontSize, r.LineHeight, r.Width, r.MaxWidth, r.Height, r.MaxHeight, r.Padding); err != nil {
		return err
	}
	if !r.Anchor.valid() {
		return invalidConfig("text anchor %d", r.Anchor)
	}
	if !r.VerticalAlign.valid() {
		return invalidConfig("vertical align %d", r.VerticalAlign)
	}
	if r.FontSize < 0 || r.LineHeight < 0 || r.Width < 0 || r.MaxWidth < 0 ||
		r.Height < 0 || r.MaxHeight < 0 || r.Padding < 0 {
		return invalidConfig("text run has a negative size")
	}
	if r.MaxLines < 0 {
		return invalidConfig("max lines %d", r.MaxLines)
	}
	return nil
}

func (r TextRun) lineHeight() float64 {
	if r.LineHeight > 0 {
		return r.LineHeight
	}
	return defaultLineHeight
}

// wrapWidth returns the inner width lines must fit in, or 0 when unbounded.
// A set width always wraps, even when the padding leaves no room for text.
func (r TextRun) wrapWidth() float64 {
	w := r.Width
	if w == 0 {
		w = r.MaxWidth
	}
	if w == 0 {
		return 0
	}
	if inner := w - 2*r.Padding; inner > 0 {
		return inner
	}
	return math.SmallestNonzeroFloat64
}

// LineRecord is one visual line. Left and Top are relative to the top-left
// corner of the text box.
type LineRecord struct {
	Left, Top     float64
	Width, Height float64
	Text          string
}

// Measurement is the result of LayoutText. Width and Height are the box
// size including padding. OffsetX and OffsetY place the box in the node's
// local frame. Baseline is the first baseline measured from the box top.
type Measurement struct {
	Lines       []LineRecord
	Width       float64
	Height      float64
	Baseline    float64
	HasOverflow bool
	OffsetX     float64
	OffsetY     float64
}

// Box returns the measured box in the node's local frame.
func (m Measurement) Box() BoundingBox {
	return BoundingBox{OffsetX: m.OffsetX, OffsetY: m.OffsetY, Width: m.Width, Height: m.Height}
}

// LineRect is a line rectangle reported by a MeasurementProvider.
type LineRect struct {
	Left, Top, Width, Height float64
}

// MeasureRequest is the input of MeasurementProvider.Measure. Lines in Text
// are separated by '\n'; U+00A0 must not be treated as a break opportunity.
type MeasureRequest struct {
	Text       string
	FontFamily string
	FontSize   float64
	LineHeight float64 // multiplier
	Width      float64 // 0 = unset
	MaxWidth   float64 // 0 = unset
	Anchor     TextAnchor
}

// ProviderMetrics is the provider's own layout of a MeasureRequest. Rects
// list the visual lines in order; the engine only trusts their geometry.
type ProviderMetrics struct {
	Rects           []LineRect
	Width           float64
	Height          float64
	FirstLineOffset float64
	Baseline        float64
}

// MeasurementProvider measures glyphs for the layout engine. Implementations
// must be deterministic for fixed inputs.
type MeasurementProvider interface {
	Measure(req MeasureRequest) (ProviderMetrics, error)

	// CharBoundaryAtWidth returns the rune index of the last character of
	// line whose right edge is at or before width, or -1 if none fits.
	CharBoundaryAtWidth(line, family string, size, width float64) (int, error)
}

// LayoutText wraps, truncates and aligns run using p. On provider failure it
// returns a zero Measurement and an error wrapping ErrMeasurementUnavailable.
func LayoutText(run TextRun, p MeasurementProvider) (Measurement, error) {
	if err := run.Validate(); err != nil {
		return Measurement{}, fmt.Errorf("folio: layout text: %w", err)
	}
	if p == nil {
		return Measurement{}, fmt.Errorf("folio: layout text: %w: nil provider", ErrMeasurementUnavailable)
	}

	hard := normalizeText(run.Text)
	inner := run.wrapWidth()

	req := MeasureRequest{
		Text:       strings.Join(hard, "\n"),
		FontFamily: run.FontFamily,
		FontSize:   run.FontSize,
		LineHeight: run.lineHeight(),
		Anchor:     run.Anchor,
	}
	if run.Width > 0 {
		req.Width = inner
	} else if run.MaxWidth > 0 {
		req.MaxWidth = inner
	}
	pm, err := p.Measure(req)
	if err != nil {
		return Measurement{}, unavailable(err)
	}

	rf := reflower{run: run, p: p, rects: pm.Rects, wrap: inner}
	lines, err := rf.reflow(hard)
	if err != nil {
		return Measurement{}, unavailable(err)
	}

	lines, overflow := truncateLines(lines, run)

	m := Measurement{Lines: lines, HasOverflow: overflow, Baseline: pm.Baseline}
	alignLines(&m, run)
	return m, nil
}

func unavailable(err error) error {
	return fmt.Errorf("folio: layout text: %w: %w", ErrMeasurementUnavailable, err)
}

// normalizeText splits s into hard lines and marks whitespace. A run of two
// or more whitespace characters, or any run touching the start or end of a
// hard line, becomes non-breaking except its last character, which becomes
// a single breakable space.
func normalizeText(s string) []string {
	segs := strings.Split(s, "\n")
	for i, seg := range segs {
		segs[i] = normalizeWhitespace(strings.TrimSuffix(seg, "\r"))
	}
	return segs
}

// nonBreaking reports whether r is whitespace that must never become a wrap
// point (U+00A0, U+2007, U+202F).
func nonBreaking(r rune) bool {
	return r == nbsp || r == '\u2007' || r == '\u202f'
}

func normalizeWhitespace(s string) string {
	rs := []rune(s)
	out := make([]rune, len(rs))
	for i := 0; i < len(rs); {
		if !unicode.IsSpace(rs[i]) {
			out[i] = rs[i]
			i++
			continue
		}
		j := i
		for j < len(rs) && unicode.IsSpace(rs[j]) {
			j++
		}
		edge := i == 0 || j == len(rs)
		for k := i; k < j; k++ {
			if nonBreaking(rs[k]) {
				out[k] = rs[k]
			} else if (edge || j-i >= 2) && k < j-1 {
				out[k] = nbsp
			} else {
				out[k] = ' '
			}
		}
		i = j
	}
	return string(out)
}

// reflower walks hard lines over the provider's rectangles.
type reflower struct {
	run   TextRun
	p     MeasurementProvider
	rects []LineRect
	wrap  float64 // 0 = unbounded

	next int
	last LineRect
	have bool
}

// nextRect returns the next provider rectangle. Once those run out it
// continues below the last one with rectangles as wide as the wrap width.
func (r *reflower) nextRect() (LineRect, bool) {
	if r.next < len(r.rects) {
		rect := r.rects[r.next]
		r.next++
		r.last, r.have = rect, true
		return rect, false
	}
	rect := LineRect{Width: r.wrap, Height: r.run.FontSize * r.run.lineHeight()}
	if r.have {
		rect.Top = r.last.Top + r.last.Height
		rect.Height = r.last.Height
	}
	if rect.Width == 0 {
		rect.Width = math.MaxFloat64
	}
	r.last, r.have = rect, true
	return rect, true
}

func (r *reflower) reflow(hard []string) ([]LineRecord, error) {
	var lines []LineRecord
	for _, h := range hard {
		rem := []rune(h)
		for {
			rect, synthetic := r.nextRect()
			if len(rem) == 0 {
				lines = append(lines, LineRecord{Top: rect.Top, Height: rect.Height})
				break
			}
			idx, err := r.p.CharBoundaryAtWidth(string(rem), r.run.FontFamily, r.run.FontSize, rect.Width)
			if err != nil {
				return nil, err
			}
			take := len(rem)
			if idx < len(rem)-1 {
				take = max(idx, 0) + 1
			}
			line := LineRecord{Top: rect.Top, Width: rect.Width, Height: rect.Height, Text: string(rem[:take])}
			if synthetic {
				w, err := r.measureLine(line.Text)
				if err != nil {
					return nil, err
				}
				line.Width = w
			}
			lines = append(lines, line)

			rem = rem[take:]
			if len(rem) > 0 && rem[0] == ' ' {
				rem = rem[1:]
			}
			if len(rem) == 0 {
				break
			}
		}
	}
	for i := range lines {
		lines[i].Text = strings.ReplaceAll(lines[i].Text, string(nbsp), " ")
	}
	return lines, nil
}

func (r *reflower) measureLine(s string) (float64, error) {
	pm, err := r.p.Measure(MeasureRequest{
		Text:       s,
		FontFamily: r.run.FontFamily,
		FontSize:   r.run.FontSize,
		LineHeight: r.run.lineHeight(),
		Anchor:     r.run.Anchor,
	})
	if err != nil {
		return 0, err
	}
	return pm.Width, nil
}

// truncateLines drops trailing lines beyond MaxLines or whose bottom edge
// passes the inner MaxHeight.
func truncateLines(lines []LineRecord, run TextRun) ([]LineRecord, bool) {
	keep := len(lines)
	if run.MaxLines > 0 && keep > run.MaxLines {
		keep = run.MaxLines
	}
	if run.MaxHeight > 0 {
		limit := run.MaxHeight - 2*run.Padding
		for i := 0; i < keep; i++ {
			if lines[i].Top+lines[i].Height > limit {
				keep = i
				break
			}
		}
	}
	return lines[:keep], keep < len(lines)
}

// alignLines positions lines inside the box and sizes the box.
func alignLines(m *Measurement, run TextRun) {
	pad := run.Padding

	var contentW, contentH float64
	for _, l := range m.Lines {
		contentW = math.Max(contentW, l.Width)
		contentH = math.Max(contentH, l.Top+l.Height)
	}

	refW := contentW
	m.Width = contentW + 2*pad
	if run.Width > 0 {
		refW = math.Max(run.Width-2*pad, 0)
		m.Width = run.Width
	}

	var dy float64
	m.Height = contentH + 2*pad
	if run.Height > 0 {
		m.Height = run.Height
		innerH := math.Max(run.Height-2*pad, 0)
		switch run.VerticalAlign {
		case AlignMiddle:
			dy = (innerH - contentH) / 2
		case AlignBottom:
			dy = innerH - contentH
		}
	} else {
		switch run.VerticalAlign {
		case AlignMiddle:
			m.OffsetY = -m.Height / 2
		case AlignBottom:
			m.OffsetY = -m.Height
		}
	}

	for i := range m.Lines {
		l := &m.Lines[i]
		var dx float64
		switch run.Anchor {
		case AnchorMiddle:
			dx = (refW - l.Width) / 2
		case AnchorEnd:
			dx = refW - l.Width
		}
		l.Left = pad + dx
		l.Top += pad + dy
	}
	if len(m.Lines) > 0 {
		m.Baseline += pad + dy
	} else {
		m.Baseline = 0
	}
}
