package folio

import (
	"errors"
	"math"
	"testing"
)

func TestSnapCandidatesUnrotated(t *testing.T) {
	lines := SnapCandidates("a", Rect{X: 10, Y: 20, Width: 40, Height: 30}, 0)
	want := []SnapLine{
		{AxisX, 30, "a"}, {AxisX, 10, "a"}, {AxisX, 50, "a"},
		{AxisY, 35, "a"}, {AxisY, 20, "a"}, {AxisY, 50, "a"},
	}
	if len(lines) != len(want) {
		t.Fatalf("len = %d, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestSnapCandidatesRotatedCentersOnly(t *testing.T) {
	lines := SnapCandidates("a", Rect{X: 0, Y: 0, Width: 10, Height: 20}, 30)
	if len(lines) != 2 {
		t.Fatalf("len = %d, want 2", len(lines))
	}
	if lines[0] != (SnapLine{AxisX, 5, "a"}) || lines[1] != (SnapLine{AxisY, 10, "a"}) {
		t.Errorf("lines = %+v", lines)
	}
	// A full revolution counts as unrotated.
	if got := len(SnapCandidates("a", Rect{Width: 10, Height: 10}, 360)); got != 6 {
		t.Errorf("360 degrees: len = %d, want 6", got)
	}
}

func TestFindSnapThresholdBoundary(t *testing.T) {
	moving := []SnapLine{{AxisX, 105, "m"}}
	others := []SnapLine{{AxisX, 100, "o"}}

	res, err := FindSnapCorrections(moving, others, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !res.SnappedX || res.DX != 5 {
		t.Errorf("at threshold: snapped=%v dx=%v, want true 5", res.SnappedX, res.DX)
	}

	res, err = FindSnapCorrections(moving, others, 5-1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if res.SnappedX || res.DX != 0 || len(res.Matches) != 0 {
		t.Errorf("past threshold: %+v, want no snap", res)
	}
}

func TestFindSnapPicksSmallest(t *testing.T) {
	moving := []SnapLine{{AxisX, 50, "m"}, {AxisY, 10, "m"}}
	others := []SnapLine{
		{AxisX, 47, "a"},
		{AxisX, 51, "b"},
		{AxisY, 12, "c"},
		{AxisY, 50, "d"},
	}
	res, err := FindSnapCorrections(moving, others, 5)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "dx", res.DX, -1)
	assertNear(t, "dy", res.DY, -2)
	if len(res.Matches) != 2 {
		t.Fatalf("matches = %+v, want 2", res.Matches)
	}
	if res.Matches[0].Other.OwnerID != "b" || res.Matches[1].Other.OwnerID != "c" {
		t.Errorf("matches = %+v, want b then c", res.Matches)
	}
}

func TestFindSnapTieKeepsFirst(t *testing.T) {
	moving := []SnapLine{{AxisX, 50, "m"}}
	others := []SnapLine{{AxisX, 47, "a"}, {AxisX, 53, "b"}}
	res, err := FindSnapCorrections(moving, others, 5)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "dx", res.DX, 3)
	if len(res.Matches) != 1 || res.Matches[0].Other.OwnerID != "a" {
		t.Errorf("matches = %+v, want only a", res.Matches)
	}
}

func TestFindSnapMatchesAllEqualDeltas(t *testing.T) {
	// Two guides line up at once: left edge with one box, right edge with another.
	moving := SnapCandidates("m", Rect{X: 2, Y: 500, Width: 10, Height: 10}, 0)
	others := []SnapLine{{AxisX, 0, "a"}, {AxisX, 10, "b"}}
	res, err := FindSnapCorrections(moving, others, 3)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "dx", res.DX, 2)
	if len(res.Matches) != 2 {
		t.Errorf("matches = %+v, want 2", res.Matches)
	}
	if res.SnappedY {
		t.Error("y should not snap")
	}
}

func TestFindSnapAxesIndependent(t *testing.T) {
	moving := []SnapLine{{AxisX, 10, "m"}}
	others := []SnapLine{{AxisY, 10, "o"}}
	res, err := FindSnapCorrections(moving, others, 5)
	if err != nil {
		t.Fatal(err)
	}
	if res.SnappedX || res.SnappedY {
		t.Errorf("lines on different axes matched: %+v", res)
	}
}

func TestFindSnapErrors(t *testing.T) {
	if _, err := FindSnapCorrections(nil, nil, -1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("negative threshold err = %v", err)
	}
	if _, err := FindSnapCorrections(nil, nil, math.NaN()); !errors.Is(err, ErrInvalidNumericInput) {
		t.Errorf("NaN threshold err = %v", err)
	}
	bad := []SnapLine{{AxisX, math.Inf(1), "m"}}
	if _, err := FindSnapCorrections(bad, nil, 1); !errors.Is(err, ErrInvalidNumericInput) {
		t.Errorf("infinite line err = %v", err)
	}
}

func TestSnapThreshold(t *testing.T) {
	got, err := SnapThreshold(5, 2)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "threshold", got, 2.5)

	if _, err := SnapThreshold(5, 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero zoom err = %v", err)
	}
	if _, err := SnapThreshold(-1, 1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("negative px err = %v", err)
	}
}

func TestSnapResultApply(t *testing.T) {
	res := SnapResult{DX: 2, DY: -3}
	x, y := res.Apply(10, 10, Identity)
	assertNear(t, "x", x, 8)
	assertNear(t, "y", y, 13)

	// A parent rotated 90 degrees sees the correction turned back.
	x, y = res.Apply(10, 10, RotateDegrees(-90))
	assertNear(t, "rotated x", x, 13)
	assertNear(t, "rotated y", y, 12)
}
