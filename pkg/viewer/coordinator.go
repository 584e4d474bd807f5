package viewer

import (
	"math"
	"sync"

	"github.com/pndaza/just-pdf-viewer/pkg/nav"
	"github.com/pndaza/just-pdf-viewer/pkg/viewport"
)

// Coordinator is the layout reconciliation loop. On every layout
// measurement it decides whether the container size or scroll axis
// changed meaningfully, recomputes the viewport fraction, and rebuilds
// the scroll surface when the fraction moved beyond its epsilon. The
// rebuild always preserves the current page, so a window resize or
// device rotation never resets the reading position.
type Coordinator struct {
	mu sync.Mutex

	nav *nav.Controller

	// pageSize returns the average page size of the loaded document;
	// ok is false until a document is bound.
	pageSize func() (viewport.Size, bool)

	axis    viewport.Axis
	sizeEps float64
	fracEps float64

	container viewport.Size
	measured  bool

	fraction     float64
	haveFraction bool
}

// NewCoordinator wires the reconciliation loop to a navigation
// controller and a page-size provider. Epsilons of zero fall back to the
// defaults (1 logical unit for size, 0.01 for the fraction); both are
// tunable, not load-bearing.
func NewCoordinator(n *nav.Controller, pageSize func() (viewport.Size, bool), axis viewport.Axis, sizeEps, fracEps float64) *Coordinator {
	if sizeEps <= 0 {
		sizeEps = defaultSizeEpsilon
	}
	if fracEps <= 0 {
		fracEps = defaultFractionEpsilon
	}
	return &Coordinator{
		nav:      n,
		pageSize: pageSize,
		axis:     axis,
		sizeEps:  sizeEps,
		fracEps:  fracEps,
	}
}

// Axis returns the current scroll axis.
func (c *Coordinator) Axis() viewport.Axis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axis
}

// Fraction returns the most recently computed viewport fraction.
func (c *Coordinator) Fraction() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fraction, c.haveFraction
}

// Layout feeds a container measurement into the loop. Sub-epsilon size
// jitter is ignored entirely.
func (c *Coordinator) Layout(w, h float64) {
	c.mu.Lock()
	size := viewport.Size{W: w, H: h}
	if c.measured && !c.container.Changed(size, c.sizeEps) {
		c.mu.Unlock()
		return
	}
	c.container = size
	c.measured = true
	c.reconcileLocked(false)
}

// SetAxis flips the scroll axis. An axis change always rebuilds the
// surface: the old one scrolls the wrong way regardless of fraction.
func (c *Coordinator) SetAxis(axis viewport.Axis) {
	c.mu.Lock()
	if axis == c.axis {
		c.mu.Unlock()
		return
	}
	c.axis = axis
	c.reconcileLocked(true)
}

// Invalidate forces a recomputation against the last measurement, used
// after a document (re)load changes the average page size.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	c.haveFraction = false
	c.reconcileLocked(true)
}

// reconcileLocked recomputes the fraction and rebuilds when it crossed
// the epsilon. Releases the mutex: the rebuild runs outside the lock
// because attaching a surface can re-enter the coordinator via a layout
// pass.
func (c *Coordinator) reconcileLocked(force bool) {
	if !c.measured {
		c.mu.Unlock()
		return
	}
	page, ok := c.pageSize()
	if !ok {
		c.mu.Unlock()
		return
	}

	f, err := viewport.Fraction(c.axis, c.container, page)
	if err != nil {
		c.mu.Unlock()
		if debugLog != nil {
			debugLog("[Coordinator] Fraction unavailable:", err)
		}
		return
	}

	changed := !c.haveFraction || math.Abs(f-c.fraction) > c.fracEps
	c.fraction = f
	c.haveFraction = true
	n := c.nav
	c.mu.Unlock()

	if !changed && !force {
		return
	}
	if debugLog != nil {
		debugLog("[Coordinator] Rebuilding at fraction", f)
	}
	n.Rebuild(f)
}
