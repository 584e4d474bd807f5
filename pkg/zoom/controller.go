// Package zoom implements the zoom/pan controller for a document viewer.
// The controller owns a single transform.Matrix and is the only writer of
// it; observers read the transform through change notifications.
package zoom

import (
	"sync"

	"github.com/pndaza/just-pdf-viewer/pkg/transform"
)

// Default interaction constants.
const (
	// DefaultStep is the scale delta applied by ZoomIn/ZoomOut.
	DefaultStep = 0.25
	// DoubleTapScale is the target scale of a double-tap zoom-in.
	DoubleTapScale = 2.5
)

// debugLog is set by the debug package
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// Listener receives the transform after every applied change.
type Listener func(transform.Matrix)

// Controller tracks zoom/pan state for one viewer instance.
//
// Content size (the average page size of the loaded document) and viewport
// size (the container) are unknown until fed in; fit operations silently
// no-op until both are known.
type Controller struct {
	mu sync.Mutex

	minScale float64
	maxScale float64
	m        transform.Matrix

	contentW, contentH   float64
	viewportW, viewportH float64

	animate Animator

	listeners map[int]Listener
	nextID    int
}

// NewController creates a controller with the given scale bounds. Bounds
// are normalized: non-positive or inverted bounds fall back to [1, 4].
func NewController(minScale, maxScale float64) *Controller {
	if minScale <= 0 {
		minScale = 1.0
	}
	if maxScale < minScale {
		maxScale = minScale * 4
	}
	return &Controller{
		minScale:  minScale,
		maxScale:  maxScale,
		m:         transform.Identity(),
		listeners: make(map[int]Listener),
	}
}

// MinScale returns the lower scale bound.
func (c *Controller) MinScale() float64 { return c.minScale }

// MaxScale returns the upper scale bound.
func (c *Controller) MaxScale() float64 { return c.maxScale }

// Scale returns the current scale factor.
func (c *Controller) Scale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.Scale()
}

// Transform returns the current transform.
func (c *Controller) Transform() transform.Matrix {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m
}

// SetContentSize records the intrinsic (average page) content size.
func (c *Controller) SetContentSize(w, h float64) {
	c.mu.Lock()
	c.contentW, c.contentH = w, h
	c.mu.Unlock()
}

// SetViewportSize records the container size.
func (c *Controller) SetViewportSize(w, h float64) {
	c.mu.Lock()
	c.viewportW, c.viewportH = w, h
	c.mu.Unlock()
}

// Subscribe registers a listener called synchronously after each applied
// transform change. The returned function unsubscribes it.
func (c *Controller) Subscribe(l Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// SetAnimator installs the animation hook. A nil animator means every
// transition is applied immediately.
func (c *Controller) SetAnimator(a Animator) {
	c.mu.Lock()
	c.animate = a
	c.mu.Unlock()
}

func (c *Controller) clamp(s float64) float64 {
	if s < c.minScale {
		return c.minScale
	}
	if s > c.maxScale {
		return c.maxScale
	}
	return s
}

// SetScale sets the scale, clamped to the controller's bounds. If focal is
// non-nil and the viewport size is known, translation is chosen so the
// content under the focal point stays fixed; otherwise scaling is anchored
// at the origin.
func (c *Controller) SetScale(scale float64, focal *transform.Point) {
	c.mu.Lock()
	s := c.clamp(scale)
	target := transform.Scaling(s)
	if focal != nil && c.viewportW > 0 && c.viewportH > 0 {
		target = transform.ScaleTranslation(s, -focal.X*(s-1), -focal.Y*(s-1))
	}
	c.applyLocked(target)
}

// ZoomIn increases the scale by DefaultStep, anchored at the origin.
func (c *Controller) ZoomIn() { c.ZoomBy(DefaultStep) }

// ZoomOut decreases the scale by DefaultStep, anchored at the origin.
func (c *Controller) ZoomOut() { c.ZoomBy(-DefaultStep) }

// ZoomBy adjusts the current scale by delta, clamped.
func (c *Controller) ZoomBy(delta float64) {
	c.mu.Lock()
	s := c.clamp(c.m.Scale() + delta)
	c.applyLocked(transform.Scaling(s))
}

// Reset returns the transform to identity.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.applyLocked(transform.Identity())
}

// FitToWidth scales so the content width fills the viewport width.
// Silently no-ops until both content and viewport sizes are known.
func (c *Controller) FitToWidth() {
	c.mu.Lock()
	if !c.sizesKnownLocked() {
		c.mu.Unlock()
		return
	}
	s := c.clamp(c.viewportW / c.contentW)
	c.applyLocked(transform.Scaling(s))
}

// FitToHeight scales so the content height fills the viewport height.
func (c *Controller) FitToHeight() {
	c.mu.Lock()
	if !c.sizesKnownLocked() {
		c.mu.Unlock()
		return
	}
	s := c.clamp(c.viewportH / c.contentH)
	c.applyLocked(transform.Scaling(s))
}

// FitToScreen scales so the whole content rectangle is visible, taking the
// smaller of the width and height ratios.
func (c *Controller) FitToScreen() {
	c.mu.Lock()
	if !c.sizesKnownLocked() {
		c.mu.Unlock()
		return
	}
	sx := c.viewportW / c.contentW
	sy := c.viewportH / c.contentH
	s := sx
	if sy < s {
		s = sy
	}
	c.applyLocked(transform.Scaling(c.clamp(s)))
}

// CenterContent translates the scaled content rectangle to the center of
// the viewport, preserving the current scale.
func (c *Controller) CenterContent() {
	c.mu.Lock()
	if !c.sizesKnownLocked() {
		c.mu.Unlock()
		return
	}
	s := c.m.Scale()
	tx := (c.viewportW - c.contentW*s) / 2
	ty := (c.viewportH - c.contentH*s) / 2
	c.applyLocked(transform.ScaleTranslation(s, tx, ty))
}

// DoubleTap implements the double-tap toggle: any non-identity transform
// returns to identity, otherwise the view zooms to DoubleTapScale anchored
// at the tap point. Callers on non-touch platforms must not synthesize
// double taps; the gate lives in the visual layer.
func (c *Controller) DoubleTap(at transform.Point) {
	c.mu.Lock()
	if !c.m.IsIdentity() {
		c.applyLocked(transform.Identity())
		return
	}
	s := c.clamp(DoubleTapScale)
	c.applyLocked(transform.ScaleTranslation(s, -at.X*(s-1), -at.Y*(s-1)))
}

func (c *Controller) sizesKnownLocked() bool {
	return c.contentW > 0 && c.contentH > 0 && c.viewportW > 0 && c.viewportH > 0
}

// applyLocked routes a target transform through the animation hook and
// releases the mutex. The immediate-apply path notifies synchronously;
// an installed animator owns the clock and calls back per frame.
func (c *Controller) applyLocked(target transform.Matrix) {
	from := c.m
	animate := c.animate
	c.mu.Unlock()

	if debugLog != nil {
		debugLog("[Zoom] Applying transform, scale:", target.Scale())
	}

	if animate == nil || from.Equal(target, transform.Epsilon) {
		c.commit(target)
		return
	}
	animate(from, target, c.commit)
}

// commit stores an (possibly intermediate) transform and fans it out.
func (c *Controller) commit(m transform.Matrix) {
	c.mu.Lock()
	c.m = m
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()

	// Notify outside the lock to allow listeners to read back state
	for _, l := range ls {
		l(m)
	}
}
