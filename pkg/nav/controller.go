// Package nav implements page navigation over a paged scroll surface.
//
// The controller mediates between navigation requests and the surface's
// readiness: a surface only becomes ready on a later scheduling turn
// (post-layout), so jumps that cannot be applied yet are parked in a
// one-slot latest-wins pending target and drained on the next readiness
// signal. Navigation is best-effort and self-healing; a failed jump is
// never surfaced to the caller.
package nav

import "sync"

// debugLog is set by the debug package
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// ScrollSurface is the paginated, scrollable presentation primitive
// driving which page is visible. Implementations live in the visual
// layer; the controller only drives them.
type ScrollSurface interface {
	// JumpTo moves the surface to the given page. It fails when the
	// surface is not ready.
	JumpTo(page int) error
	// CurrentPosition returns the live page position. ok is false
	// until the surface is ready.
	CurrentPosition() (page int, ok bool)
	// IsReady reports whether the surface is laid out and accepting
	// jumps.
	IsReady() bool
	// Dispose releases the surface. Only its owner calls this.
	Dispose()
}

// SurfaceFactory builds a new scroll surface positioned at initialPage
// with the given viewport fraction.
type SurfaceFactory func(initialPage int, fraction float64) ScrollSurface

// Listener receives the 0-based page index after each change.
type Listener func(page int)

// Controller owns the current page index and the lifecycle of the bound
// scroll surface.
type Controller struct {
	mu sync.Mutex

	pageCount int
	current   int

	pending    int
	hasPending bool

	surface     ScrollSurface
	ownsSurface bool
	attaching   bool

	// A rebuild requested while an attach is in flight is parked here,
	// latest fraction wins, and drained when the attach completes.
	rebuildFraction float64
	rebuildParked   bool

	factory SurfaceFactory

	// schedule defers a function to run after the current layout pass.
	// Defaults to immediate invocation; hosts with a frame loop install
	// their own deferral.
	schedule func(func())

	listeners map[int]Listener
	nextID    int
}

// NewController creates a detached controller. The factory is used
// whenever the controller must create a surface it will own; it may be
// nil if surfaces are always supplied externally.
func NewController(factory SurfaceFactory) *Controller {
	return &Controller{
		factory:   factory,
		schedule:  func(fn func()) { fn() },
		listeners: make(map[int]Listener),
	}
}

// SetScheduler installs the deferral hook used to apply navigation after
// the surface's next layout pass.
func (c *Controller) SetScheduler(schedule func(func())) {
	c.mu.Lock()
	if schedule != nil {
		c.schedule = schedule
	}
	c.mu.Unlock()
}

// CurrentPage returns the 0-based current page index. Before a document
// is attached it is 0.
func (c *Controller) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// PendingPage returns the parked navigation target, if any.
func (c *Controller) PendingPage() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.hasPending
}

// PageCount returns the attached document's page count, 0 if detached.
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageCount
}

// Attached reports whether any scroll surface is currently bound.
func (c *Controller) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface != nil
}

// Subscribe registers a page-change listener and returns its
// unsubscribe function.
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

func (c *Controller) clampLocked(page int) int {
	if c.pageCount <= 0 {
		if page < 0 {
			return 0
		}
		return page
	}
	if page < 0 {
		return 0
	}
	if page >= c.pageCount {
		return c.pageCount - 1
	}
	return page
}

// Initialize binds the controller to a loaded document. If surface is
// nil, a new surface is created through the factory, positioned at
// initialPage and owned by the controller. A supplied surface is
// adopted without taking disposal ownership.
func (c *Controller) Initialize(pageCount, initialPage int, surface ScrollSurface, fraction float64) {
	c.mu.Lock()
	c.pageCount = pageCount
	c.current = c.clampLocked(initialPage)
	c.hasPending = false

	if surface != nil {
		c.mu.Unlock()
		c.attach(surface, false)
		return
	}
	if c.factory == nil {
		c.mu.Unlock()
		return
	}
	page := c.current
	factory := c.factory
	c.mu.Unlock()

	c.attach(factory(page, fraction), true)
}

// AttachSurface replaces the bound surface with one supplied by the
// visual layer. Ownership stays with the caller.
func (c *Controller) AttachSurface(surface ScrollSurface) {
	c.attach(surface, false)
}

// Rebuild tears down the current surface and builds a fresh one through
// the factory at the given viewport fraction, preserving the current
// page. The live surface position wins over the recorded index when the
// old surface is still readable. A rebuild arriving while an attach is
// in flight is never lost: it is parked and runs once the attach
// completes, with the latest requested fraction.
func (c *Controller) Rebuild(fraction float64) {
	c.mu.Lock()
	if c.attaching {
		c.rebuildFraction = fraction
		c.rebuildParked = true
		c.mu.Unlock()
		if debugLog != nil {
			debugLog("[Nav] Attach in flight, parked rebuild at fraction", fraction)
		}
		return
	}
	if c.factory == nil {
		c.mu.Unlock()
		return
	}
	page := c.current
	if c.surface != nil {
		if live, ok := c.surface.CurrentPosition(); ok {
			page = c.clampLocked(live)
			c.current = page
		}
	}
	factory := c.factory
	c.mu.Unlock()

	if debugLog != nil {
		debugLog("[Nav] Rebuilding surface at page", page, "fraction", fraction)
	}
	c.attach(factory(page, fraction), true)
}

// attach installs a new surface, disposing the previous one first when
// this controller owned it. The navigation target is applied on a
// deferred turn, once the new surface has had a layout pass. Re-entrant
// calls while an attach is in flight are ignored.
func (c *Controller) attach(surface ScrollSurface, owned bool) {
	c.mu.Lock()
	if c.attaching {
		c.mu.Unlock()
		if debugLog != nil {
			debugLog("[Nav] Ignoring re-entrant attach")
		}
		return
	}
	c.attaching = true

	// The old surface must be gone before the new one is installed;
	// two live surfaces must never drive the same visual region.
	if c.surface != nil && c.ownsSurface {
		c.surface.Dispose()
	}
	c.surface = surface
	c.ownsSurface = owned

	target := c.current
	if c.hasPending {
		target = c.pending
	}
	schedule := c.schedule
	c.mu.Unlock()

	schedule(func() {
		c.applyTarget(surface, target)
		c.mu.Lock()
		c.attaching = false
		rebuild := c.rebuildParked
		fraction := c.rebuildFraction
		c.rebuildParked = false
		c.mu.Unlock()

		if rebuild {
			c.Rebuild(fraction)
		}
	})
}

// applyTarget attempts a jump on the given surface, degrading to a
// pending target when the surface is unusable.
func (c *Controller) applyTarget(surface ScrollSurface, target int) {
	if surface == nil || !surface.IsReady() {
		c.park(target)
		return
	}
	if err := surface.JumpTo(target); err != nil {
		if debugLog != nil {
			debugLog("[Nav] Jump to", target, "failed:", err)
		}
		c.park(target)
		return
	}
	c.mu.Lock()
	if c.hasPending && c.pending == target {
		c.hasPending = false
	}
	c.mu.Unlock()
}

func (c *Controller) park(target int) {
	c.mu.Lock()
	c.pending = target
	c.hasPending = true
	c.mu.Unlock()
	if debugLog != nil {
		debugLog("[Nav] Parked pending page", target)
	}
}

// GotoPage navigates to page (0-based, clamped). The current index is
// updated synchronously so readers see the intended target immediately;
// the jump itself is applied to the surface if ready, otherwise parked.
func (c *Controller) GotoPage(page int) {
	c.mu.Lock()
	page = c.clampLocked(page)
	c.current = page
	// Latest intent wins; any older parked target is superseded
	c.hasPending = false
	surface := c.surface
	ls := c.listenersLocked()
	c.mu.Unlock()

	for _, l := range ls {
		l(page)
	}
	c.applyTarget(surface, page)
}

// NextPage advances one page.
func (c *Controller) NextPage() { c.GotoPage(c.CurrentPage() + 1) }

// PrevPage goes back one page.
func (c *Controller) PrevPage() { c.GotoPage(c.CurrentPage() - 1) }

// OnPageChanged is called by the scroll surface when the user scrolls
// past a page boundary. Any parked target for a different page is stale
// at that point and dropped.
func (c *Controller) OnPageChanged(page int) {
	c.mu.Lock()
	page = c.clampLocked(page)
	c.current = page
	if c.hasPending && c.pending != page {
		c.hasPending = false
	}
	ls := c.listenersLocked()
	c.mu.Unlock()

	for _, l := range ls {
		l(page)
	}
}

// OnSurfaceReady is the readiness signal draining the pending target.
func (c *Controller) OnSurfaceReady() {
	c.mu.Lock()
	if !c.hasPending {
		c.mu.Unlock()
		return
	}
	target := c.pending
	surface := c.surface
	c.mu.Unlock()

	c.applyTarget(surface, target)
}

// Detach tears down the binding, disposing the surface when owned.
func (c *Controller) Detach() {
	c.mu.Lock()
	surface := c.surface
	owned := c.ownsSurface
	c.surface = nil
	c.ownsSurface = false
	c.mu.Unlock()

	if surface != nil && owned {
		surface.Dispose()
	}
}

func (c *Controller) listenersLocked() []Listener {
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	return ls
}
