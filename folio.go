package folio

import (
	"math"
	"strings"
)

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Kind is the closed set of node variants. Each variant derives its
// bounding box explicitly in Node.BoundingBox.
type Kind uint8

const (
	KindRect  Kind = iota // plain box; content box supplied by the host when auto-sized
	KindText              // text block laid out by LayoutText
	KindGroup             // container whose content box is the union of its children
	KindTable             // container stacking its children as rows
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindText:
		return "text"
	case KindGroup:
		return "group"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// ResizeHandle identifies one of the four edge handles of a node.
type ResizeHandle uint8

const (
	HandleRight  ResizeHandle = iota // grows width to the right
	HandleLeft                       // grows width to the left
	HandleTop                        // grows height upward
	HandleBottom                     // grows height downward
)

func (h ResizeHandle) String() string {
	switch h {
	case HandleRight:
		return "right"
	case HandleLeft:
		return "left"
	case HandleTop:
		return "top"
	case HandleBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

func (h ResizeHandle) valid() bool { return h <= HandleBottom }

// ParseResizeHandle parses "left", "right", "top" or "bottom".
func ParseResizeHandle(s string) (ResizeHandle, error) {
	switch strings.ToLower(s) {
	case "right", "r":
		return HandleRight, nil
	case "left", "l":
		return HandleLeft, nil
	case "top", "t":
		return HandleTop, nil
	case "bottom", "b":
		return HandleBottom, nil
	}
	return 0, invalidConfig("unknown resize handle %q", s)
}

// TextAnchor controls horizontal line placement inside a text box.
type TextAnchor uint8

const (
	AnchorStart  TextAnchor = iota // lines start at the left edge (default)
	AnchorMiddle                   // lines are centered
	AnchorEnd                      // lines end at the right edge
)

func (a TextAnchor) String() string {
	switch a {
	case AnchorStart:
		return "start"
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "unknown"
	}
}

func (a TextAnchor) valid() bool { return a <= AnchorEnd }

// ParseTextAnchor parses "start", "middle" or "end". The CSS names "left",
// "center" and "right" are accepted as exact synonyms.
func ParseTextAnchor(s string) (TextAnchor, error) {
	switch strings.ToLower(s) {
	case "start", "left":
		return AnchorStart, nil
	case "middle", "center":
		return AnchorMiddle, nil
	case "end", "right":
		return AnchorEnd, nil
	}
	return 0, invalidConfig("unknown text anchor %q", s)
}

// VerticalAlign controls where the line block sits vertically.
type VerticalAlign uint8

const (
	AlignTop    VerticalAlign = iota // block starts at the top (default)
	AlignMiddle                      // block is centered
	AlignBottom                      // block ends at the bottom
)

func (v VerticalAlign) String() string {
	switch v {
	case AlignTop:
		return "top"
	case AlignMiddle:
		return "middle"
	case AlignBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

func (v VerticalAlign) valid() bool { return v <= AlignBottom }

// ParseVerticalAlign parses "top", "middle" or "bottom".
func ParseVerticalAlign(s string) (VerticalAlign, error) {
	switch strings.ToLower(s) {
	case "top":
		return AlignTop, nil
	case "middle", "center":
		return AlignMiddle, nil
	case "bottom":
		return AlignBottom, nil
	}
	return 0, invalidConfig("unknown vertical align %q", s)
}

// Axis selects the coordinate a snap line constrains.
type Axis uint8

const (
	AxisX Axis = iota // vertical guide at a fixed x
	AxisY             // horizontal guide at a fixed y
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	if a == AxisY {
		return "y"
	}
	return "unknown"
}

// NegativeSizePolicy decides what a resize does when a handle is dragged
// past the opposite edge.
type NegativeSizePolicy uint8

const (
	NegativeSizeAllow NegativeSizePolicy = iota // keep the negative size as computed
	NegativeSizeClamp                           // clamp width/height at zero
	NegativeSizeFlip                            // mirror into a positive size over the same region
)

func (p NegativeSizePolicy) String() string {
	switch p {
	case NegativeSizeAllow:
		return "allow"
	case NegativeSizeClamp:
		return "clamp"
	case NegativeSizeFlip:
		return "flip"
	default:
		return "unknown"
	}
}

// ParseNegativeSizePolicy parses "allow", "clamp" or "flip".
func ParseNegativeSizePolicy(s string) (NegativeSizePolicy, error) {
	switch strings.ToLower(s) {
	case "allow", "":
		return NegativeSizeAllow, nil
	case "clamp":
		return NegativeSizeClamp, nil
	case "flip":
		return NegativeSizeFlip, nil
	}
	return 0, invalidConfig("unknown negative size policy %q", s)
}
