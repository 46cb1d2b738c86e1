package typeset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BitmapFont measures text with the advances of a BMFont (.fnt) glyph set.
// Sizes are scaled linearly from the size the font was generated at.
type BitmapFont struct {
	face       string
	nativeSize float64
	lineHeight float64
	base       float64

	advances map[rune]float64
	kerning  map[kernPair]float64
}

type kernPair struct{ first, second rune }

// Face returns the face name from the .fnt info line.
func (f *BitmapFont) Face() string {
	return f.face
}

// NativeSize returns the pixel size the glyph set was generated at.
func (f *BitmapFont) NativeSize() float64 {
	return f.nativeSize
}

// Glyphs returns the number of glyphs the font defines.
func (f *BitmapFont) Glyphs() int {
	return len(f.advances)
}

func (f *BitmapFont) scale(size float64) float64 {
	if size <= 0 {
		return 1
	}
	return size / f.nativeSize
}

// Advance returns the width of s at the given size, including kerning.
// Runes missing from the font have no width and break the kerning chain.
func (f *BitmapFont) Advance(s string, size float64) float64 {
	var w float64
	var prev rune
	chained := false
	for _, r := range s {
		if r == nbsp {
			r = ' '
		}
		adv, ok := f.advances[r]
		if !ok {
			chained = false
			continue
		}
		if chained {
			w += f.kerning[kernPair{prev, r}]
		}
		w += adv
		prev, chained = r, true
	}
	return w * f.scale(size)
}

// Metrics returns the vertical metrics at the given size. The ascent is the
// .fnt base line; everything below it up to lineHeight is descent.
func (f *BitmapFont) Metrics(size float64) FontMetrics {
	s := f.scale(size)
	return FontMetrics{
		Ascent:  f.base * s,
		Descent: (f.lineHeight - f.base) * s,
	}
}

// LoadBitmapFont parses BMFont text-format data. Only the metrics needed
// for measuring are kept; page and texture attributes are ignored.
func LoadBitmapFont(data []byte) (*BitmapFont, error) {
	f := &BitmapFont{
		advances: make(map[rune]float64),
		kerning:  make(map[kernPair]float64),
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := f.apply(parseRecord(line)); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("typeset: read .fnt data: %w", err)
	}

	if f.lineHeight <= 0 {
		return nil, errors.New("typeset: .fnt data missing common lineHeight")
	}
	if len(f.advances) == 0 {
		return nil, errors.New("typeset: .fnt data has no char definitions")
	}
	if f.nativeSize == 0 {
		f.nativeSize = f.lineHeight
	}
	return f, nil
}

func (f *BitmapFont) apply(rec *fntRecord) error {
	switch rec.tag {
	case "info":
		f.face = rec.attrs["face"]
		// Negative sizes mean "match character height".
		f.nativeSize = math.Abs(rec.num("size", 0))
	case "common":
		f.lineHeight = rec.num("lineHeight", 0)
		f.base = rec.num("base", f.lineHeight)
	case "char":
		if _, ok := rec.attrs["id"]; !ok {
			return errors.New("typeset: .fnt char without id")
		}
		id := rune(rec.num("id", 0))
		f.advances[id] = rec.num("xadvance", 0)
	case "kerning":
		pair := kernPair{rune(rec.num("first", 0)), rune(rec.num("second", 0))}
		f.kerning[pair] = rec.num("amount", 0)
	}
	return rec.err
}

// fntRecord is one line of a .fnt file: a tag followed by key=value
// attributes. err holds the first malformed number read from it.
type fntRecord struct {
	tag   string
	attrs map[string]string
	err   error
}

func parseRecord(line string) *fntRecord {
	tag, rest, _ := strings.Cut(line, " ")
	rec := &fntRecord{tag: tag, attrs: make(map[string]string)}
	for _, part := range strings.Fields(rest) {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		rec.attrs[k] = strings.Trim(v, `"`)
	}
	return rec
}

// num returns the numeric attribute key, or def when it is absent.
func (r *fntRecord) num(key string, def float64) float64 {
	v, ok := r.attrs[key]
	if !ok || r.err != nil {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.err = fmt.Errorf("typeset: .fnt %s %s=%q: %w", r.tag, key, v, err)
		return def
	}
	return n
}
