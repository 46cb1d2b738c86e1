package typeset

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TTFFont measures text with Ebitengine's text/v2 shaper over a TrueType or
// OpenType font. One TTFFont serves every size.
type TTFFont struct {
	source *text.GoTextFaceSource
}

// LoadTTFFont parses raw TTF/OTF data.
func LoadTTFFont(ttfData []byte) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("typeset: failed to parse TTF data: %w", err)
	}
	return &TTFFont{source: source}, nil
}

// face returns a GoTextFace at the given size.
func (f *TTFFont) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: f.source, Size: size}
}

// Advance returns the shaped width of s at the given size.
func (f *TTFFont) Advance(s string, size float64) float64 {
	if s == "" {
		return 0
	}
	// Shape U+00A0 as a regular space so it measures like one.
	return text.Advance(strings.ReplaceAll(s, string(nbsp), " "), f.face(size))
}

// Metrics returns the horizontal-layout metrics at the given size.
func (f *TTFFont) Metrics(size float64) FontMetrics {
	m := f.face(size).Metrics()
	return FontMetrics{
		Ascent:  m.HAscent,
		Descent: m.HDescent,
		LineGap: m.HLineGap,
	}
}

// Face returns a GoTextFace at the given size for direct text/v2 rendering.
func (f *TTFFont) Face(size float64) *text.GoTextFace {
	return f.face(size)
}
