package folio

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// viewAnim holds the active tweens of a viewport animation. Nil tweens are
// not animated.
type viewAnim struct {
	tweenX    *gween.Tween
	tweenY    *gween.Tween
	tweenZoom *gween.Tween
	doneX     bool
	doneY     bool
	doneZoom  bool
}

// Viewport maps the canvas (world) onto the screen: the world point (X, Y)
// is shown at the center of Screen, scaled by Zoom.
type Viewport struct {
	// X and Y are the world-space position the viewport centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Screen is the screen-space rectangle the canvas is shown in.
	Screen Rect

	// MinZoom and MaxZoom bound Zoom; zero means unbounded.
	MinZoom, MaxZoom float64

	viewMatrix    Matrix
	invViewMatrix Matrix
	dirty         bool

	anim *viewAnim
}

// NewViewport creates a Viewport at zoom 1 showing the given screen rect.
func NewViewport(screen Rect) *Viewport {
	return &Viewport{
		Zoom:   1.0,
		Screen: screen,
		dirty:  true,
	}
}

// SetZoom sets the zoom factor, clamped to MinZoom/MaxZoom.
func (v *Viewport) SetZoom(z float64) error {
	if err := checkFinite("set zoom", []string{"zoom"}, z); err != nil {
		return err
	}
	if z <= 0 {
		return fmt.Errorf("folio: set zoom: %w", invalidConfig("non-positive zoom %v", z))
	}
	v.Zoom = v.clampZoom(z)
	v.dirty = true
	return nil
}

// ZoomAt changes the zoom while keeping the world point under the screen
// point (sx, sy) fixed, as a scroll-wheel zoom does.
func (v *Viewport) ZoomAt(z, sx, sy float64) error {
	before := v.ScreenToWorld(Vec2{sx, sy})
	if err := v.SetZoom(z); err != nil {
		return err
	}
	after := v.ScreenToWorld(Vec2{sx, sy})
	v.X += before.X - after.X
	v.Y += before.Y - after.Y
	v.dirty = true
	return nil
}

func (v *Viewport) clampZoom(z float64) float64 {
	if v.MinZoom > 0 && z < v.MinZoom {
		z = v.MinZoom
	}
	if v.MaxZoom > 0 && z > v.MaxZoom {
		z = v.MaxZoom
	}
	return z
}

// ScrollTo animates the viewport center to the given world position over
// duration seconds.
func (v *Viewport) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if v.anim == nil {
		v.anim = &viewAnim{doneZoom: true}
	}
	v.anim.tweenX = gween.New(float32(v.X), float32(x), duration, easeFn)
	v.anim.tweenY = gween.New(float32(v.Y), float32(y), duration, easeFn)
	v.anim.doneX, v.anim.doneY = false, false
}

// ZoomTo animates the zoom factor over duration seconds.
func (v *Viewport) ZoomTo(z float64, duration float32, easeFn ease.TweenFunc) error {
	if err := checkFinite("zoom to", []string{"zoom"}, z); err != nil {
		return err
	}
	if z <= 0 {
		return fmt.Errorf("folio: zoom to: %w", invalidConfig("non-positive zoom %v", z))
	}
	if v.anim == nil {
		v.anim = &viewAnim{doneX: true, doneY: true}
	}
	v.anim.tweenZoom = gween.New(float32(v.Zoom), float32(v.clampZoom(z)), duration, easeFn)
	v.anim.doneZoom = false
	return nil
}

// Animating reports whether a ScrollTo or ZoomTo is in progress.
func (v *Viewport) Animating() bool {
	return v.anim != nil
}

// Update advances running animations by dt seconds.
func (v *Viewport) Update(dt float32) {
	a := v.anim
	if a == nil {
		return
	}
	if !a.doneX && a.tweenX != nil {
		val, done := a.tweenX.Update(dt)
		v.X = float64(val)
		a.doneX = done
	}
	if !a.doneY && a.tweenY != nil {
		val, done := a.tweenY.Update(dt)
		v.Y = float64(val)
		a.doneY = done
	}
	if !a.doneZoom && a.tweenZoom != nil {
		val, done := a.tweenZoom.Update(dt)
		v.Zoom = float64(val)
		a.doneZoom = done
	}
	if a.doneX && a.doneY && a.doneZoom {
		v.anim = nil
	}
	v.dirty = true
}

// SnapThreshold converts a screen-pixel threshold into world units at the
// current zoom.
func (v *Viewport) SnapThreshold(px float64) (float64, error) {
	return SnapThreshold(px, v.Zoom)
}

// ViewMatrix returns the world-to-screen matrix.
//
//	viewMatrix = Translate(cx, cy) * Scale(zoom) * Translate(-X, -Y)
//
// where cx, cy = screen rect center.
func (v *Viewport) ViewMatrix() Matrix {
	if !v.dirty {
		return v.viewMatrix
	}
	v.dirty = false

	cx := v.Screen.X + v.Screen.Width/2
	cy := v.Screen.Y + v.Screen.Height/2
	z := v.Zoom

	v.viewMatrix = Matrix{z, 0, 0, z, cx - z*v.X, cy - z*v.Y}
	v.invViewMatrix = v.viewMatrix.Invert()
	return v.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v *Viewport) WorldToScreen(p Vec2) Vec2 {
	return v.ViewMatrix().Apply(p)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (v *Viewport) ScreenToWorld(p Vec2) Vec2 {
	v.ViewMatrix()
	return v.invViewMatrix.Apply(p)
}

// ScreenDeltaToWorld converts a pointer movement in pixels to world units.
func (v *Viewport) ScreenDeltaToWorld(d Vec2) Vec2 {
	v.ViewMatrix()
	return v.invViewMatrix.ApplyVector(d)
}

// VisibleBounds returns the world-space rectangle shown on screen.
func (v *Viewport) VisibleBounds() Rect {
	v.ViewMatrix()
	return v.invViewMatrix.TransformRect(v.Screen)
}

// MarkDirty forces a recomputation of the view matrix after X, Y or Zoom
// were set directly.
func (v *Viewport) MarkDirty() {
	v.dirty = true
}

// FitRect centers r on screen with the largest zoom that shows it whole,
// leaving margin screen pixels on every side.
func (v *Viewport) FitRect(r Rect, margin float64) error {
	if err := checkFinite("fit rect", []string{"x", "y", "width", "height", "margin"},
		r.X, r.Y, r.Width, r.Height, margin); err != nil {
		return err
	}
	availW := v.Screen.Width - 2*margin
	availH := v.Screen.Height - 2*margin
	if availW <= 0 || availH <= 0 || r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("folio: fit rect: %w", invalidConfig("nothing to fit"))
	}
	v.Zoom = v.clampZoom(math.Min(availW/r.Width, availH/r.Height))
	c := r.Center()
	v.X, v.Y = c.X, c.Y
	v.dirty = true
	return nil
}
