package typeset

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FaceFont adapts a golang.org/x/image font.Face rasterized at one size.
// Other sizes are scaled linearly from it.
type FaceFont struct {
	mu   sync.Mutex // font.Face implementations are not safe for concurrent use
	face font.Face
	size float64
}

// NewFaceFont wraps face, which was created at nativeSize pixels.
func NewFaceFont(face font.Face, nativeSize float64) *FaceFont {
	return &FaceFont{face: face, size: nativeSize}
}

// BasicFont returns the fixed 7x13 face from x/image/font/basicfont.
func BasicFont() *FaceFont {
	return NewFaceFont(basicfont.Face7x13, 13)
}

// GoRegular returns the Go Regular font rasterized at size pixels.
func GoRegular(size float64) (*FaceFont, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("typeset: parse goregular: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("typeset: goregular face: %w", err)
	}
	return NewFaceFont(face, size), nil
}

func (f *FaceFont) scale(size float64) float64 {
	if size <= 0 || f.size <= 0 {
		return 1
	}
	return size / f.size
}

// Advance returns the kerned width of s at the given size.
func (f *FaceFont) Advance(s string, size float64) float64 {
	f.mu.Lock()
	adv := measureStringWithKern(f.face, s)
	f.mu.Unlock()
	return fixedToFloat(adv) * f.scale(size)
}

// Metrics returns the face metrics scaled to size.
func (f *FaceFont) Metrics(size float64) FontMetrics {
	f.mu.Lock()
	m := f.face.Metrics()
	f.mu.Unlock()
	s := f.scale(size)
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	gap := max(fixedToFloat(m.Height)-ascent-descent, 0)
	return FontMetrics{Ascent: ascent * s, Descent: descent * s, LineGap: gap * s}
}

func measureStringWithKern(face font.Face, s string) fixed.Int26_6 {
	var advance fixed.Int26_6
	prevR := rune(-1)
	for _, r := range s {
		if r == nbsp {
			r = ' '
		}
		if prevR >= 0 {
			advance += face.Kern(prevR, r)
		}
		a, ok := face.GlyphAdvance(r)
		if ok {
			advance += a
		}
		prevR = r
	}
	return advance
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
