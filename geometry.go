package folio

import (
	"fmt"
	"math"
)

// BoundingBox is a node's box in its own local frame.
type BoundingBox struct {
	OffsetX, OffsetY float64
	Width, Height    float64
}

// Rect returns the box as a Rect in the local frame.
func (b BoundingBox) Rect() Rect {
	return Rect{X: b.OffsetX, Y: b.OffsetY, Width: b.Width, Height: b.Height}
}

// Center returns the box center in the local frame.
func (b BoundingBox) Center() Vec2 {
	return Vec2{b.OffsetX + b.Width/2, b.OffsetY + b.Height/2}
}

// Placement holds the inputs of ComputeTransform.
type Placement struct {
	X, Y             float64
	Width, Height    float64
	AnchorX, AnchorY float64
	Rotation         float64 // degrees

	// Sized reports that both Width and Height are known. Rotation is only
	// applied to sized placements since the pivot is the box center.
	Sized bool
}

// ComputeTransform returns the placement matrix of a node: translate by
// (X - AnchorX*Width, Y - AnchorY*Height), then rotate by Rotation about the
// local box center (Width/2, Height/2).
func ComputeTransform(p Placement) (Matrix, error) {
	if err := checkFinite("compute transform",
		[]string{"x", "y", "width", "height", "anchorX", "anchorY", "rotation"},
		p.X, p.Y, p.Width, p.Height, p.AnchorX, p.AnchorY, p.Rotation); err != nil {
		return Identity, err
	}
	t := Vec2{p.X - p.AnchorX*p.Width, p.Y - p.AnchorY*p.Height}
	rot := 0.0
	if p.Sized {
		rot = NormalizeRotation(p.Rotation)
	}
	return ComposeTransform(t, rot, Vec2{p.Width / 2, p.Height / 2}), nil
}

// HandleSigns returns the anchor signs of the reference point a handle keeps
// fixed, relative to the box center in half-extents.
func HandleSigns(h ResizeHandle) (signX, signY float64) {
	switch h {
	case HandleRight:
		return -1, -1
	case HandleLeft:
		return 1, 1
	case HandleBottom:
		return -1, -1
	case HandleTop:
		return -1, 1
	}
	return 0, 0
}

// ComputeResizeReposition returns the new position that keeps the reference
// point (signX*w/2, signY*h/2 from the center) fixed in parent space while
// the box changes from (curW, curH) to (newW, newH) under rotationDeg.
func ComputeResizeReposition(curW, curH, newW, newH, signX, signY, rotationDeg float64, pos Vec2) (Vec2, error) {
	if err := checkFinite("resize reposition",
		[]string{"currentWidth", "currentHeight", "newWidth", "newHeight", "signX", "signY", "rotation", "x", "y"},
		curW, curH, newW, newH, signX, signY, rotationDeg, pos.X, pos.Y); err != nil {
		return pos, err
	}
	c := Vec2{curW / 2, curH / 2}
	cn := Vec2{newW / 2, newH / 2}

	r := RotateDegrees(NormalizeRotation(rotationDeg))
	a := r.ApplyVector(Vec2{signX * curW / 2, signY * curH / 2})
	an := r.ApplyVector(Vec2{signX * newW / 2, signY * newH / 2})

	return pos.Add(c.Sub(cn)).Add(a.Sub(an)), nil
}

// ComputeRotateReposition returns the position that keeps the center of box
// fixed in parent space when the rotation about the local origin changes
// from oldRot to newRot. Full revolutions produce no shift.
func ComputeRotateReposition(oldRot, newRot float64, box BoundingBox, pos Vec2) (Vec2, error) {
	if err := checkFinite("rotate reposition",
		[]string{"oldRotation", "newRotation", "offsetX", "offsetY", "width", "height", "x", "y"},
		oldRot, newRot, box.OffsetX, box.OffsetY, box.Width, box.Height, pos.X, pos.Y); err != nil {
		return pos, err
	}
	c := box.Center()
	before := RotateDegrees(NormalizeRotation(oldRot)).ApplyVector(c)
	after := RotateDegrees(NormalizeRotation(newRot)).ApplyVector(c)
	return pos.Add(before.Sub(after)), nil
}

// handleDirection is the local axis a handle moves along.
func handleDirection(h ResizeHandle) Vec2 {
	if h == HandleTop || h == HandleBottom {
		return Vec2{0, 1}
	}
	return Vec2{1, 0}
}

// ProjectDrag projects a parent-space drag delta onto the world direction of
// the handle's axis under toParent, and returns the projection in the
// node's local frame. Movement across the axis is discarded. A degenerate
// transform that collapses the axis yields a zero delta.
func ProjectDrag(delta Vec2, h ResizeHandle, toParent Matrix) (Vec2, error) {
	if err := checkFinite("project drag", []string{"dx", "dy"}, delta.X, delta.Y); err != nil {
		return Vec2{}, err
	}
	if !h.valid() {
		return Vec2{}, invalidConfig("unknown resize handle %d", h)
	}
	axis := toParent.ApplyVector(handleDirection(h))
	if Magnitude(axis) == 0 {
		return Vec2{}, nil
	}
	proj := Project(delta, axis)
	return toParent.Invert().ApplyVector(proj), nil
}

// ResizeDelta converts a local drag delta into width/height changes for a
// handle.
func ResizeDelta(h ResizeHandle, local Vec2) (dw, dh float64) {
	switch h {
	case HandleRight:
		return local.X, 0
	case HandleLeft:
		return -local.X, 0
	case HandleTop:
		return 0, -local.Y
	case HandleBottom:
		return 0, local.Y
	}
	return 0, 0
}

// ResolveResize computes the position and size of a resize under policy.
// topLeft is the unrotated top-left corner of the box in parent space. Clamp
// limits the requested size before repositioning so the opposite edge stays
// put; Flip mirrors a negative result into a positive size covering the same
// region, which is possible because the rotation pivot (the box center) does
// not move.
func ResolveResize(policy NegativeSizePolicy, curW, curH, newW, newH, signX, signY, rotationDeg float64, topLeft Vec2) (Vec2, float64, float64, error) {
	switch policy {
	case NegativeSizeAllow, NegativeSizeFlip:
	case NegativeSizeClamp:
		newW = math.Max(newW, 0)
		newH = math.Max(newH, 0)
	default:
		return topLeft, curW, curH, fmt.Errorf("folio: resolve resize: %w", invalidConfig("unknown negative size policy %d", policy))
	}
	p, err := ComputeResizeReposition(curW, curH, newW, newH, signX, signY, rotationDeg, topLeft)
	if err != nil {
		return topLeft, curW, curH, err
	}
	if policy == NegativeSizeFlip {
		if newW < 0 {
			p.X += newW
			newW = -newW
		}
		if newH < 0 {
			p.Y += newH
			newH = -newH
		}
	}
	return p, newW, newH, nil
}
