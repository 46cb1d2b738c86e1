package folio

import (
	"fmt"
	"math"
)

// SnapLine is a vertical (AxisX) or horizontal (AxisY) guide coordinate
// contributed by one node.
type SnapLine struct {
	Axis     Axis
	Position float64
	OwnerID  string
}

// SnapMatch pairs a moving line with the stationary line it aligned to.
// Delta is moving.Position - other.Position.
type SnapMatch struct {
	Moving SnapLine
	Other  SnapLine
	Delta  float64
}

// SnapResult is the correction found by FindSnapCorrections. DX and DY are
// subtracted from the proposed move. Matches lists every pair whose delta
// equals the chosen correction on its axis, X first.
type SnapResult struct {
	DX, DY   float64
	SnappedX bool
	SnappedY bool
	Matches  []SnapMatch
}

// SnapCandidates returns the guide lines of a box in the snapping space:
// the x center then, for unrotated boxes, the left and right edges, followed
// by the y center and, for unrotated boxes, the top and bottom edges. Edges
// of a rotated box do not line up with any axis so only centers are offered.
func SnapCandidates(ownerID string, box Rect, rotation float64) []SnapLine {
	rotated := NormalizeRotation(rotation) != 0
	c := box.Center()
	lines := make([]SnapLine, 0, 6)

	lines = append(lines, SnapLine{Axis: AxisX, Position: c.X, OwnerID: ownerID})
	if !rotated {
		lines = append(lines,
			SnapLine{Axis: AxisX, Position: box.X, OwnerID: ownerID},
			SnapLine{Axis: AxisX, Position: box.X + box.Width, OwnerID: ownerID},
		)
	}
	lines = append(lines, SnapLine{Axis: AxisY, Position: c.Y, OwnerID: ownerID})
	if !rotated {
		lines = append(lines,
			SnapLine{Axis: AxisY, Position: box.Y, OwnerID: ownerID},
			SnapLine{Axis: AxisY, Position: box.Y + box.Height, OwnerID: ownerID},
		)
	}
	return lines
}

// FindSnapCorrections finds, per axis, the moving/other pair with the
// smallest absolute difference not exceeding threshold. Ties keep the first
// pair found, iterating moving lines in order and, for each, other lines in
// order. Lines on different axes are never compared.
func FindSnapCorrections(moving, others []SnapLine, threshold float64) (SnapResult, error) {
	if err := checkFinite("find snap corrections", []string{"threshold"}, threshold); err != nil {
		return SnapResult{}, err
	}
	if threshold < 0 {
		return SnapResult{}, fmt.Errorf("folio: find snap corrections: %w", invalidConfig("negative threshold %v", threshold))
	}
	for _, l := range moving {
		if err := checkFinite("find snap corrections", []string{"moving line"}, l.Position); err != nil {
			return SnapResult{}, err
		}
	}
	for _, l := range others {
		if err := checkFinite("find snap corrections", []string{"other line"}, l.Position); err != nil {
			return SnapResult{}, err
		}
	}

	var res SnapResult
	var best [2]float64
	var found [2]bool
	for _, m := range moving {
		for _, o := range others {
			if m.Axis != o.Axis {
				continue
			}
			d := m.Position - o.Position
			if math.Abs(d) > threshold {
				continue
			}
			ax := m.Axis
			if !found[ax] || math.Abs(d) < math.Abs(best[ax]) {
				best[ax] = d
				found[ax] = true
			}
		}
	}

	for _, ax := range [2]Axis{AxisX, AxisY} {
		if !found[ax] {
			continue
		}
		for _, m := range moving {
			for _, o := range others {
				if m.Axis == ax && o.Axis == ax && m.Position-o.Position == best[ax] {
					res.Matches = append(res.Matches, SnapMatch{Moving: m, Other: o, Delta: best[ax]})
				}
			}
		}
	}
	res.DX, res.SnappedX = best[AxisX], found[AxisX]
	res.DY, res.SnappedY = best[AxisY], found[AxisY]
	return res, nil
}

// SnapThreshold converts a screen-space threshold in pixels into world
// units at the given zoom, so guides feel equally sticky at any zoom level.
func SnapThreshold(px, zoom float64) (float64, error) {
	if err := checkFinite("snap threshold", []string{"px", "zoom"}, px, zoom); err != nil {
		return 0, err
	}
	if px < 0 {
		return 0, fmt.Errorf("folio: snap threshold: %w", invalidConfig("negative threshold %v", px))
	}
	if zoom <= 0 {
		return 0, fmt.Errorf("folio: snap threshold: %w", invalidConfig("non-positive zoom %v", zoom))
	}
	return px / zoom, nil
}

// Apply subtracts the correction from a proposed position. The correction
// is expressed in snapping space and is mapped into the node's parent space
// through slideToParent first.
func (r SnapResult) Apply(x, y float64, slideToParent Matrix) (float64, float64) {
	d := slideToParent.ApplyVector(Vec2{r.DX, r.DY})
	return x - d.X, y - d.Y
}
