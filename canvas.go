package folio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// GestureKind is the interaction a Canvas gesture performs.
type GestureKind uint8

const (
	GestureNone   GestureKind = iota // no gesture in progress
	GestureMove                      // drag the node, snapping to guides
	GestureResize                    // drag one edge handle
	GestureRotate                    // spin about the box center
)

func (g GestureKind) String() string {
	switch g {
	case GestureNone:
		return "none"
	case GestureMove:
		return "move"
	case GestureResize:
		return "resize"
	case GestureRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// gesture is the state of the pointer interaction in progress.
type gesture struct {
	kind   GestureKind
	node   *Node
	handle ResizeHandle

	// Move: unsnapped position the pointer would put the node at.
	rawX, rawY float64
	// Rotate: pointer angle and node rotation at press time.
	startAngle float64
	startRot   float64
}

// Canvas owns the node tree and routes editing gestures through the
// geometry, snapping and text layout engines. Pointer positions are given
// in screen pixels and converted through the Viewport.
type Canvas struct {
	root     *Node
	viewport *Viewport
	provider MeasurementProvider
	cache    *MeasureCache
	cfg      Config
	policy   NegativeSizePolicy
	logger   *log.Logger
	debug    bool

	drag    dragTracker
	gesture gesture
	guides  []SnapMatch
}

// NewCanvas creates a canvas with a root group, a viewport showing screen,
// and the given measurement provider (which may be nil when the canvas holds
// no text). The configuration is validated.
func NewCanvas(cfg Config, screen Rect, p MeasurementProvider) (*Canvas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, _ := cfg.Policy()
	root := NewGroup("root")
	root.Snappable = false
	c := &Canvas{
		root:     root,
		viewport: NewViewport(screen),
		provider: p,
		cache:    NewMeasureCache(),
		cfg:      cfg,
		policy:   policy,
		logger:   discardLogger(),
		drag:     dragTracker{deadZone: cfg.DragDeadZone},
	}
	c.SetDebugMode(cfg.Debug)
	return c, nil
}

// Root returns the canvas root group.
func (c *Canvas) Root() *Node {
	return c.root
}

// Viewport returns the canvas viewport.
func (c *Canvas) Viewport() *Viewport {
	return c.viewport
}

// Config returns the configuration the canvas was created with.
func (c *Canvas) Config() Config {
	return c.cfg
}

// Cache returns the measurement cache used by Relayout.
func (c *Canvas) Cache() *MeasureCache {
	return c.cache
}

// SetProvider replaces the measurement provider and drops cached layouts.
func (c *Canvas) SetProvider(p MeasurementProvider) {
	c.provider = p
	c.cache.Reset()
}

// SetLogger sets the logger for warnings and debug output. A nil logger
// discards everything.
func (c *Canvas) SetLogger(l *log.Logger) {
	if l == nil {
		l = discardLogger()
	}
	c.logger = l
	if c.debug {
		c.logger.SetLevel(log.DebugLevel)
		debugLogger = c.logger
	}
}

// Logger returns the canvas logger.
func (c *Canvas) Logger() *log.Logger {
	return c.logger
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// use panics, tree depth and child count warnings are logged, and relayout
// stats are logged at debug level.
func (c *Canvas) SetDebugMode(enabled bool) {
	c.debug = enabled
	globalDebug = enabled
	if enabled {
		c.logger.SetLevel(log.DebugLevel)
		debugLogger = c.logger
	} else {
		debugLogger = discardLogger()
	}
}

// Find returns the node with the given ID, or nil.
func (c *Canvas) Find(id string) *Node {
	var found *Node
	c.root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Relayout re-measures every text node and restacks every table, children
// before parents so container boxes see fresh content. Provider failures
// are logged and leave the node with an empty box; the first is returned.
func (c *Canvas) Relayout() error {
	var stats layoutStats
	var t0 time.Time
	if c.debug {
		t0 = time.Now()
	}
	firstErr := c.relayout(c.root, &stats)
	if c.debug {
		stats.elapsed = time.Since(t0)
		c.debugLog(stats)
	}
	return firstErr
}

func (c *Canvas) relayout(n *Node, stats *layoutStats) error {
	var firstErr error
	for _, child := range n.children {
		if err := c.relayout(child, stats); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	stats.nodes++
	switch n.Kind {
	case KindText:
		if err := c.layoutText(n, stats); err != nil && firstErr == nil {
			firstErr = err
		}
	case KindTable:
		n.StackRows()
	}
	return firstErr
}

// layoutText measures n through the cache and applies the box.
func (c *Canvas) layoutText(n *Node, stats *layoutStats) error {
	if n.Text == nil {
		return nil
	}
	run := *n.Text
	if w, h, ok := n.Size.Dimensions(); ok {
		run.Width, run.Height = w, h
	}
	if run.FontFamily == "" {
		run.FontFamily = c.cfg.FontFamily
	}
	if run.FontSize == 0 {
		run.FontSize = c.cfg.FontSize
	}
	hits, _ := c.cache.Stats()
	m, err := c.cache.Layout(run, c.provider)
	if h2, _ := c.cache.Stats(); h2 > hits {
		stats.cacheHit++
	}
	if err != nil {
		stats.failed++
		n.measurement = Measurement{}
		n.content, n.hasContent = BoundingBox{}, false
		if errors.Is(err, ErrMeasurementUnavailable) {
			c.logger.Warn("text measurement unavailable", "node", n.Name, "id", n.ID, "err", err)
		}
		return err
	}
	stats.measured++
	n.measurement = m
	return n.SetContentBox(m.Box())
}

// --- Hit testing ---

// HitTest returns the topmost node under the screen point, or nil.
func (c *Canvas) HitTest(screen Vec2) *Node {
	return HitTest(c.root, c.viewport.ScreenToWorld(screen))
}

// HitHandle returns the handle of n under the screen point, using the
// configured handle radius in screen pixels.
func (c *Canvas) HitHandle(n *Node, screen Vec2) (ResizeHandle, bool, error) {
	r, err := c.viewport.SnapThreshold(c.cfg.HandleRadiusPx)
	if err != nil {
		return 0, false, err
	}
	return HitHandle(n, c.viewport.ScreenToWorld(screen), r)
}

// --- Snapping ---

// worldRotation sums the rotations of n and its ancestors.
func worldRotation(n *Node) float64 {
	r := 0.0
	for p := n; p != nil; p = p.Parent {
		r += p.Rotation
	}
	return NormalizeRotation(r)
}

// SnapLines returns the guide lines of every visible, snappable node other
// than moving, its descendants and its ancestors, in world space.
func (c *Canvas) SnapLines(moving *Node) ([]SnapLine, error) {
	var lines []SnapLine
	var walkErr error
	c.root.Walk(func(n *Node) bool {
		if walkErr != nil || !n.Visible || n == moving {
			return false
		}
		if n == c.root || (moving != nil && n.isAncestorOf(moving)) || !n.Snappable {
			return true
		}
		r, err := n.WorldBounds()
		if err != nil {
			walkErr = err
			return false
		}
		lines = append(lines, SnapCandidates(n.ID, r, worldRotation(n))...)
		return true
	})
	return lines, walkErr
}

// MoveTo moves n to the proposed local position, snapping its guide lines
// to the other nodes' when snapping is enabled. It returns the correction
// that was applied.
func (c *Canvas) MoveTo(n *Node, x, y float64) (SnapResult, error) {
	if err := n.SetPosition(x, y); err != nil {
		return SnapResult{}, err
	}
	c.guides = c.guides[:0]
	if !c.cfg.SnapEnabled || !n.Snappable {
		return SnapResult{}, nil
	}

	threshold, err := c.viewport.SnapThreshold(c.cfg.SnapThresholdPx)
	if err != nil {
		return SnapResult{}, err
	}
	others, err := c.SnapLines(n)
	if err != nil {
		return SnapResult{}, err
	}
	bounds, err := n.WorldBounds()
	if err != nil {
		return SnapResult{}, err
	}
	moving := SnapCandidates(n.ID, bounds, worldRotation(n))

	res, err := FindSnapCorrections(moving, others, threshold)
	if err != nil {
		return SnapResult{}, err
	}
	if !res.SnappedX && !res.SnappedY {
		return res, nil
	}

	pw, err := n.parentWorld()
	if err != nil {
		return SnapResult{}, err
	}
	nx, ny := res.Apply(x, y, pw.Invert())
	n.X, n.Y = nx, ny
	c.guides = append(c.guides, res.Matches...)
	c.logger.Debug("snapped", "node", n.Name, "dx", res.DX, "dy", res.DY, "matches", len(res.Matches))
	return res, nil
}

// Guides returns the snap matches of the last move, for highlighting.
// The returned slice MUST NOT be mutated by the caller.
func (c *Canvas) Guides() []SnapMatch {
	return c.guides
}

// Resize applies a world-space drag delta to handle h of n under the
// configured negative size policy. Auto-sized text rewraps at the new width
// instead of taking an explicit size.
func (c *Canvas) Resize(n *Node, h ResizeHandle, worldDelta Vec2) error {
	if !n.Scalable {
		return nil
	}
	pw, err := n.parentWorld()
	if err != nil {
		return err
	}
	local, err := n.projectDrag(h, pw.Invert().ApplyVector(worldDelta))
	if err != nil {
		return err
	}
	bb := n.BoundingBox()
	dw, dh := ResizeDelta(h, local)
	reqW, reqH := bb.Width+dw, bb.Height+dh

	if n.Kind == KindText && n.Size.IsAuto() && n.Text != nil {
		if n.Text.FontFamily == "" {
			n.Text.FontFamily = c.cfg.FontFamily
		}
		if n.Text.FontSize == 0 {
			n.Text.FontSize = c.cfg.FontSize
		}
		m, err := n.ResizeText(h, reqW, reqH, c.policy, c.provider)
		if err != nil {
			c.logger.Warn("text resize failed", "node", n.Name, "err", err)
			return err
		}
		if reqW < MinTextExtent || reqH < MinTextExtent {
			c.logger.Debug("text size limited", "node", n.Name, "policy", c.policy, "width", m.Width, "height", m.Height)
		}
		return nil
	}

	if err := n.ResizeTo(h, reqW, reqH, c.policy); err != nil {
		return err
	}
	if c.policy != NegativeSizeAllow && (reqW < 0 || reqH < 0) {
		w, hh, _ := n.Size.Dimensions()
		c.logger.Debug("negative size policy applied", "node", n.Name, "policy", c.policy, "width", w, "height", hh)
	}
	return nil
}

// Rotate sets the rotation of n in degrees, keeping its center in place.
func (c *Canvas) Rotate(n *Node, deg float64) error {
	return n.SetRotation(deg)
}

// --- Gestures ---

// Gesture returns the kind and node of the gesture in progress.
func (c *Canvas) Gesture() (GestureKind, *Node) {
	return c.gesture.kind, c.gesture.node
}

// BeginMove starts dragging n from the screen point.
func (c *Canvas) BeginMove(n *Node, screen Vec2) {
	c.gesture = gesture{kind: GestureMove, node: n, rawX: n.X, rawY: n.Y}
	c.drag.press(screen)
}

// BeginResize starts dragging handle h of n from the screen point.
func (c *Canvas) BeginResize(n *Node, h ResizeHandle, screen Vec2) {
	c.gesture = gesture{kind: GestureResize, node: n, handle: h}
	c.drag.press(screen)
}

// BeginRotate starts spinning n about its center from the screen point.
func (c *Canvas) BeginRotate(n *Node, screen Vec2) error {
	a, err := c.pointerAngle(n, screen)
	if err != nil {
		return err
	}
	c.gesture = gesture{kind: GestureRotate, node: n, startAngle: a, startRot: n.Rotation}
	c.drag.press(screen)
	return nil
}

// pointerAngle is the angle in degrees of the screen point around the
// world center of n.
func (c *Canvas) pointerAngle(n *Node, screen Vec2) (float64, error) {
	center, err := n.LocalToWorld(n.BoundingBox().Center())
	if err != nil {
		return 0, err
	}
	p := c.viewport.ScreenToWorld(screen).Sub(center)
	return math.Atan2(p.Y, p.X) * 180 / math.Pi, nil
}

// PointerMove feeds the current pointer position of the gesture in
// progress. Nothing happens until the pointer leaves the drag dead zone.
func (c *Canvas) PointerMove(screen Vec2) error {
	g := &c.gesture
	if g.kind == GestureNone || g.node == nil {
		return nil
	}
	d, ok := c.drag.move(screen)
	if !ok {
		return nil
	}
	wd := c.viewport.ScreenDeltaToWorld(d)

	switch g.kind {
	case GestureMove:
		pw, err := g.node.parentWorld()
		if err != nil {
			return err
		}
		ld := pw.Invert().ApplyVector(wd)
		g.rawX += ld.X
		g.rawY += ld.Y
		_, err = c.MoveTo(g.node, g.rawX, g.rawY)
		return err
	case GestureResize:
		return c.Resize(g.node, g.handle, wd)
	case GestureRotate:
		a, err := c.pointerAngle(g.node, screen)
		if err != nil {
			return err
		}
		return c.Rotate(g.node, g.startRot+a-g.startAngle)
	}
	return fmt.Errorf("folio: pointer move: %w", invalidConfig("unknown gesture %d", g.kind))
}

// PointerUp ends the gesture in progress and reports whether the pointer
// was dragged (as opposed to clicked).
func (c *Canvas) PointerUp() bool {
	dragged := c.drag.release()
	c.gesture = gesture{}
	c.guides = c.guides[:0]
	return dragged
}
