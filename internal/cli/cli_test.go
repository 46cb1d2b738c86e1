package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/folio"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLayoutCommand(t *testing.T) {
	out, err := execute(t, "", "layout", "--json", "--family", "basic", "--size", "13", "--max-width", "30", "abc def")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	got := decode[layoutOutput](t, out)
	if len(got.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(got.Lines))
	}
	if got.Lines[0].Text != "abc" || got.Lines[1].Text != "def" {
		t.Errorf("lines = %q, %q; want abc, def", got.Lines[0].Text, got.Lines[1].Text)
	}
	if got.Width != 21 || got.Height != 26 {
		t.Errorf("size = %v x %v, want 21 x 26", got.Width, got.Height)
	}
}

func TestLayoutCommand_Stdin(t *testing.T) {
	out, err := execute(t, "hello\n", "layout", "--json", "--family", "basic", "--size", "13")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	got := decode[layoutOutput](t, out)
	if len(got.Lines) != 1 || got.Lines[0].Text != "hello" {
		t.Errorf("lines = %+v, want [hello]", got.Lines)
	}
}

func TestLayoutCommand_Styled(t *testing.T) {
	out, err := execute(t, "", "layout", "--family", "basic", "--size", "13", "--max-lines", "1", "--max-width", "30", "abc def")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(out, "abc") {
		t.Errorf("output missing first line: %q", out)
	}
	if !strings.Contains(out, "overflows") {
		t.Errorf("output missing overflow warning: %q", out)
	}
}

func TestLayoutCommand_InvalidAnchor(t *testing.T) {
	_, err := execute(t, "", "layout", "--anchor", "justify", "x")
	if !errors.Is(err, folio.ErrInvalidConfiguration) {
		t.Errorf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestLayoutCommand_UnknownFamily(t *testing.T) {
	_, err := execute(t, "", "layout", "--family", "serif", "x")
	if !errors.Is(err, folio.ErrMeasurementUnavailable) {
		t.Errorf("err = %v, want ErrMeasurementUnavailable", err)
	}
}

func TestLayoutCommand_BitmapFontFlag(t *testing.T) {
	fnt := `info face="Tiny" size=10
common lineHeight=10 base=8
char id=32 xadvance=5
char id=65 xadvance=10
`
	path := filepath.Join(t.TempDir(), "tiny.fnt")
	if err := os.WriteFile(path, []byte(fnt), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "layout", "--json", "--font", "tiny="+path, "--family", "tiny", "--size", "10", "AA A")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	got := decode[layoutOutput](t, out)
	if got.Width != 35 {
		t.Errorf("width = %v, want 35", got.Width)
	}
}

func TestTransformCommand(t *testing.T) {
	out, err := execute(t, "", "transform", "--json",
		"--x", "10", "--y", "20", "--width", "40", "--height", "20", "--rotation", "90", "--point", "0,0")
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	got := decode[transformOutput](t, out)
	if len(got.Points) != 1 {
		t.Fatalf("points = %d, want 1", len(got.Points))
	}
	if !near(got.Points[0].X, 40) || !near(got.Points[0].Y, 10) {
		t.Errorf("point = %+v, want (40, 10)", got.Points[0])
	}
}

func TestTransformCommand_BadPoint(t *testing.T) {
	_, err := execute(t, "", "transform", "--point", "1;2")
	if err == nil {
		t.Error("expected error for malformed point")
	}
}

func TestResizeCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want boxOutput
	}{
		{
			name: "right grows in place",
			args: []string{"--handle", "right", "--width", "100", "--height", "50", "--dx", "20"},
			want: boxOutput{X: 0, Y: 0, Width: 120, Height: 50},
		},
		{
			name: "left moves origin",
			args: []string{"--handle", "left", "--width", "100", "--height", "50", "--dx", "-20"},
			want: boxOutput{X: -20, Y: 0, Width: 120, Height: 50},
		},
		{
			name: "clamp at zero",
			args: []string{"--handle", "right", "--width", "100", "--height", "50", "--dx", "-150", "--policy", "clamp"},
			want: boxOutput{X: 0, Y: 0, Width: 0, Height: 50},
		},
		{
			name: "flip",
			args: []string{"--handle", "right", "--width", "100", "--height", "50", "--dx", "-150", "--policy", "flip"},
			want: boxOutput{X: -50, Y: 0, Width: 50, Height: 50},
		},
		{
			name: "allow negative",
			args: []string{"--handle", "right", "--width", "100", "--height", "50", "--dx", "-150"},
			want: boxOutput{X: 0, Y: 0, Width: -50, Height: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", append([]string{"resize", "--json"}, tt.args...)...)
			if err != nil {
				t.Fatalf("resize: %v", err)
			}
			got := decode[boxOutput](t, out)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) ||
				!near(got.Width, tt.want.Width) || !near(got.Height, tt.want.Height) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResizeCommand_ConfigPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.toml")
	if err := os.WriteFile(path, []byte(`negative_size = "clamp"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "resize", "--json", "--config", path,
		"--handle", "right", "--width", "100", "--height", "50", "--dx", "-150")
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	got := decode[boxOutput](t, out)
	if got.Width != 0 {
		t.Errorf("width = %v, want 0 under clamp", got.Width)
	}
}

func TestResizeCommand_InvalidHandle(t *testing.T) {
	_, err := execute(t, "", "resize", "--handle", "diagonal")
	if !errors.Is(err, folio.ErrInvalidConfiguration) {
		t.Errorf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestRotateCommand(t *testing.T) {
	out, err := execute(t, "", "rotate", "--json", "--width", "40", "--height", "20", "--from", "0", "--to", "90")
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	got := decode[boxOutput](t, out)
	if !near(got.X, 30) || !near(got.Y, -10) {
		t.Errorf("position = (%v, %v), want (30, -10)", got.X, got.Y)
	}
}

func TestSnapCommand(t *testing.T) {
	scene := `{
		"moving": {"id": "m", "x": 0, "y": 0, "width": 10, "height": 10},
		"others": [{"id": "o", "x": 13, "y": 50, "width": 10, "height": 10}]
	}`
	out, err := execute(t, scene, "snap", "--json")
	if err != nil {
		t.Fatalf("snap: %v", err)
	}
	got := decode[snapOutput](t, out)
	if got.DX != -3 || got.DY != 0 {
		t.Errorf("correction = (%v, %v), want (-3, 0)", got.DX, got.DY)
	}
	if got.X != 3 || got.Y != 0 {
		t.Errorf("position = (%v, %v), want (3, 0)", got.X, got.Y)
	}
	if len(got.Matches) != 1 || got.Matches[0].Owner != "o" || got.Matches[0].Axis != "x" {
		t.Errorf("matches = %+v, want one x match on o", got.Matches)
	}
}

func TestSnapCommand_ZoomShrinksThreshold(t *testing.T) {
	scene := `{
		"moving": {"id": "m", "x": 0, "y": 0, "width": 10, "height": 10},
		"others": [{"id": "o", "x": 13, "y": 50, "width": 10, "height": 10}],
		"zoom": 2
	}`
	out, err := execute(t, scene, "snap", "--json")
	if err != nil {
		t.Fatalf("snap: %v", err)
	}
	got := decode[snapOutput](t, out)
	if got.Threshold != 2.5 {
		t.Errorf("threshold = %v, want 2.5", got.Threshold)
	}
	if len(got.Matches) != 0 {
		t.Errorf("matches = %+v, want none", got.Matches)
	}
}

func TestSnapCommand_BadJSON(t *testing.T) {
	_, err := execute(t, `{"moving": 1}`, "snap")
	if err == nil {
		t.Error("expected decode error")
	}
}
