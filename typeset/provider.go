// Package typeset provides concrete text measurement for folio's layout
// engine. A Provider holds named typefaces and implements
// folio.MeasurementProvider on top of them.
package typeset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/phanxgames/folio"
	"github.com/rivo/uniseg"
)

// nbsp is the non-breaking space folio inserts for preserved whitespace.
const nbsp = '\u00a0'

// widthEpsilon absorbs float noise when comparing advances to a limit.
const widthEpsilon = 1e-9

// ErrUnknownFamily is returned when a request names an unregistered family.
var ErrUnknownFamily = errors.New("typeset: unknown font family")

// FontMetrics are the vertical metrics of a typeface at one size.
type FontMetrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// Typeface measures runs of text at arbitrary sizes. Implementations must
// be safe for concurrent use.
type Typeface interface {
	Advance(s string, size float64) float64
	Metrics(size float64) FontMetrics
}

// Provider implements folio.MeasurementProvider over registered typefaces.
// The first family registered is the default for requests that name none.
type Provider struct {
	mu       sync.RWMutex
	faces    map[string]Typeface
	fallback string
}

// NewProvider returns an empty provider.
func NewProvider() *Provider {
	return &Provider{faces: make(map[string]Typeface)}
}

// Register adds or replaces the typeface for family.
func (p *Provider) Register(family string, t Typeface) {
	if t == nil {
		panic("typeset: Register called with nil typeface")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.faces == nil {
		p.faces = make(map[string]Typeface)
	}
	p.faces[family] = t
	if p.fallback == "" {
		p.fallback = family
	}
}

// SetDefault makes family the default for requests without a family.
func (p *Provider) SetDefault(family string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.faces[family]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	p.fallback = family
	return nil
}

// Families returns the registered family names in sorted order.
func (p *Provider) Families() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.faces))
	for name := range p.faces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Provider) typeface(family string) (Typeface, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if family == "" {
		family = p.fallback
	}
	t, ok := p.faces[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	return t, nil
}

// CacheKey identifies the provider's family table for folio.MeasureCache.
func (p *Provider) CacheKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.faces))
	for name := range p.faces {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("typeset:")
	b.WriteString(p.fallback)
	for _, name := range names {
		fmt.Fprintf(&b, ";%s=%T@%p", name, p.faces[name], p.faces[name])
	}
	return b.String()
}

// Measure lays out req.Text with greedy line breaking. Each visual line
// yields one rect whose width excludes trailing breakable spaces. Empty
// hard lines yield zero-width rects.
func (p *Provider) Measure(req folio.MeasureRequest) (folio.ProviderMetrics, error) {
	face, err := p.typeface(req.FontFamily)
	if err != nil {
		return folio.ProviderMetrics{}, err
	}
	mult := req.LineHeight
	if mult <= 0 {
		mult = 1
	}
	lh := req.FontSize * mult
	limit := req.Width
	if limit <= 0 {
		limit = req.MaxWidth
	}

	var widths []float64
	for _, hard := range strings.Split(req.Text, "\n") {
		for _, line := range wrapLine(face, hard, req.FontSize, limit) {
			widths = append(widths, face.Advance(strings.TrimRight(line, " "), req.FontSize))
		}
	}

	boxW := req.Width
	if boxW <= 0 {
		for _, w := range widths {
			boxW = math.Max(boxW, w)
		}
	}

	rects := make([]folio.LineRect, len(widths))
	for i, w := range widths {
		var left float64
		switch req.Anchor {
		case folio.AnchorMiddle:
			left = (boxW - w) / 2
		case folio.AnchorEnd:
			left = boxW - w
		}
		rects[i] = folio.LineRect{Left: left, Top: float64(i) * lh, Width: w, Height: lh}
	}

	m := face.Metrics(req.FontSize)
	halfLeading := (lh - (m.Ascent + m.Descent)) / 2
	return folio.ProviderMetrics{
		Rects:           rects,
		Width:           boxW,
		Height:          float64(len(rects)) * lh,
		FirstLineOffset: halfLeading,
		Baseline:        halfLeading + m.Ascent,
	}, nil
}

// CharBoundaryAtWidth returns the rune index of the last rune of the longest
// grapheme-aligned prefix of line that fits in width, or -1.
func (p *Provider) CharBoundaryAtWidth(line, family string, size, width float64) (int, error) {
	face, err := p.typeface(family)
	if err != nil {
		return -1, err
	}
	last := -1
	runes := 0
	end := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		end += len(cluster)
		if face.Advance(line[:end], size) > width+widthEpsilon {
			break
		}
		runes += len([]rune(cluster))
		last = runes - 1
	}
	return last, nil
}

// wrapLine splits a hard line at line-break opportunities so that every
// line fits limit. A segment wider than limit is broken between grapheme
// clusters, keeping at least one cluster per line. limit <= 0 disables
// wrapping.
func wrapLine(face Typeface, s string, size, limit float64) []string {
	if limit <= 0 || s == "" {
		return []string{s}
	}
	fits := func(t string) bool {
		return face.Advance(strings.TrimRight(t, " "), size) <= limit+widthEpsilon
	}

	var lines []string
	var cur string
	state := -1
	rest := s
	for len(rest) > 0 {
		var seg string
		seg, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		if fits(cur + seg) {
			cur += seg
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		if fits(seg) {
			cur = seg
			continue
		}
		pieces := breakClusters(seg, fits)
		lines = append(lines, pieces[:len(pieces)-1]...)
		cur = pieces[len(pieces)-1]
	}
	if cur != "" || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

// breakClusters splits seg between grapheme clusters into pieces that fit.
func breakClusters(seg string, fits func(string) bool) []string {
	var pieces []string
	var cur string
	state := -1
	rest := seg
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cur != "" && !fits(cur+cluster) {
			pieces = append(pieces, cur)
			cur = ""
		}
		cur += cluster
	}
	return append(pieces, cur)
}
