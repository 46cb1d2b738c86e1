package typeset

import (
	"testing"

	"github.com/phanxgames/folio"
	"golang.org/x/image/font/gofont/goregular"
)

func TestBasicFont_Advance(t *testing.T) {
	f := BasicFont()
	if w := f.Advance("abc", 13); w != 21 {
		t.Errorf("Advance(abc, 13) = %f, want 21", w)
	}
	if w := f.Advance("abc", 26); w != 42 {
		t.Errorf("Advance(abc, 26) = %f, want 42", w)
	}
	if w := f.Advance("a\u00a0b", 13); w != 21 {
		t.Errorf("Advance(a<nbsp>b, 13) = %f, want 21", w)
	}
}

func TestBasicFont_Metrics(t *testing.T) {
	m := BasicFont().Metrics(13)
	if m.Ascent != 11 || m.Descent != 2 || m.LineGap != 0 {
		t.Errorf("Metrics(13) = %+v, want {11 2 0}", m)
	}
}

func TestGoRegular(t *testing.T) {
	f, err := GoRegular(16)
	if err != nil {
		t.Fatalf("GoRegular: %v", err)
	}
	if f.Advance("W", 16) <= f.Advance("i", 16) {
		t.Error("W should be wider than i")
	}
	if f.Advance("", 16) != 0 {
		t.Error("empty string should have no width")
	}
	m := f.Metrics(16)
	if m.Ascent <= 0 || m.Descent <= 0 {
		t.Errorf("Metrics(16) = %+v, want positive ascent and descent", m)
	}
}

func TestGoRegular_Layout(t *testing.T) {
	f, err := GoRegular(16)
	if err != nil {
		t.Fatalf("GoRegular: %v", err)
	}
	p := NewProvider()
	p.Register("goregular", f)

	run := folio.TextRun{Text: "the quick brown fox jumps over the lazy dog", FontSize: 16, MaxWidth: 120}
	m, err := folio.LayoutText(run, p)
	if err != nil {
		t.Fatalf("LayoutText: %v", err)
	}
	if len(m.Lines) < 2 {
		t.Fatalf("line count = %d, want at least 2", len(m.Lines))
	}
	for i, l := range m.Lines {
		if l.Width > 120+1e-9 {
			t.Errorf("line %d width %f exceeds 120", i, l.Width)
		}
	}
}

func TestTTFFont(t *testing.T) {
	f, err := LoadTTFFont(goregular.TTF)
	if err != nil {
		t.Fatalf("LoadTTFFont: %v", err)
	}
	if f.Advance("", 16) != 0 {
		t.Error("empty string should have no width")
	}
	small := f.Advance("Hello", 16)
	large := f.Advance("Hello", 32)
	if small <= 0 || large <= small {
		t.Errorf("Advance at 16 = %f, at 32 = %f; want 0 < small < large", small, large)
	}
	m := f.Metrics(16)
	if m.Ascent <= 0 || m.Descent <= 0 {
		t.Errorf("Metrics(16) = %+v, want positive ascent and descent", m)
	}
	if f.Face(16).Size != 16 {
		t.Errorf("Face(16).Size = %f, want 16", f.Face(16).Size)
	}
}

func TestLoadTTFFont_InvalidData(t *testing.T) {
	_, err := LoadTTFFont([]byte("not a TTF file"))
	if err == nil {
		t.Error("expected error for invalid TTF data, got nil")
	}
}
