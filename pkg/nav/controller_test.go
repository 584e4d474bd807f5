package nav

import (
	"errors"
	"testing"
)

// fakeSurface is a controllable ScrollSurface for tests.
type fakeSurface struct {
	ready    bool
	position int
	hasPos   bool
	jumps    []int
	jumpErr  error
	disposed bool
}

func (f *fakeSurface) JumpTo(page int) error {
	if !f.ready {
		return errors.New("surface not ready")
	}
	if f.jumpErr != nil {
		return f.jumpErr
	}
	f.jumps = append(f.jumps, page)
	f.position = page
	f.hasPos = true
	return nil
}

func (f *fakeSurface) CurrentPosition() (int, bool) { return f.position, f.hasPos }
func (f *fakeSurface) IsReady() bool                { return f.ready }
func (f *fakeSurface) Dispose()                     { f.disposed = true }

func TestController_GotoPageBeforeAttach(t *testing.T) {
	c := NewController(nil)
	c.Initialize(10, 0, nil, 1.0)

	c.GotoPage(5)

	if c.CurrentPage() != 5 {
		t.Errorf("CurrentPage should update synchronously, got %d", c.CurrentPage())
	}
	if p, ok := c.PendingPage(); !ok || p != 5 {
		t.Errorf("Expected pending page 5, got %d (ok=%v)", p, ok)
	}

	// Attaching a ready surface drains the pending target without
	// another explicit call.
	s := &fakeSurface{ready: true}
	c.AttachSurface(s)

	if len(s.jumps) != 1 || s.jumps[0] != 5 {
		t.Errorf("Expected surface jumped to 5 on attach, got %v", s.jumps)
	}
	if _, ok := c.PendingPage(); ok {
		t.Error("Pending page should be cleared once applied")
	}
}

func TestController_GotoPageClamps(t *testing.T) {
	c := NewController(nil)
	c.Initialize(10, 0, &fakeSurface{ready: true}, 1.0)

	c.GotoPage(42)
	if c.CurrentPage() != 9 {
		t.Errorf("Expected clamp to 9, got %d", c.CurrentPage())
	}

	c.GotoPage(-3)
	if c.CurrentPage() != 0 {
		t.Errorf("Expected clamp to 0, got %d", c.CurrentPage())
	}
}

func TestController_InitializeClampsInitialPage(t *testing.T) {
	c := NewController(nil)
	c.Initialize(3, 99, nil, 1.0)

	if c.CurrentPage() != 2 {
		t.Errorf("Expected initial page clamped to 2, got %d", c.CurrentPage())
	}
}

func TestController_FailedJumpParksTarget(t *testing.T) {
	s := &fakeSurface{ready: true, jumpErr: errors.New("detached mid-call")}
	c := NewController(nil)
	c.Initialize(10, 0, s, 1.0)

	c.GotoPage(4)

	if p, ok := c.PendingPage(); !ok || p != 4 {
		t.Fatalf("Expected failed jump parked as pending 4, got %d (ok=%v)", p, ok)
	}

	// Surface recovers: the readiness signal retries the parked target
	s.jumpErr = nil
	c.OnSurfaceReady()

	if len(s.jumps) != 1 || s.jumps[0] != 4 {
		t.Errorf("Expected retried jump to 4, got %v", s.jumps)
	}
	if _, ok := c.PendingPage(); ok {
		t.Error("Pending should be cleared after successful retry")
	}
}

func TestController_PendingLatestWins(t *testing.T) {
	c := NewController(nil)
	c.Initialize(10, 0, nil, 1.0)

	c.GotoPage(3)
	c.GotoPage(7)

	if p, ok := c.PendingPage(); !ok || p != 7 {
		t.Errorf("Expected latest pending target 7, got %d (ok=%v)", p, ok)
	}

	s := &fakeSurface{ready: true}
	c.AttachSurface(s)

	if len(s.jumps) != 1 || s.jumps[0] != 7 {
		t.Errorf("Expected single jump to latest target, got %v", s.jumps)
	}
}

func TestController_OnPageChangedClearsStalePending(t *testing.T) {
	c := NewController(nil)
	c.Initialize(10, 0, nil, 1.0)
	c.GotoPage(5)

	// User scrolls to page 2 before the pending jump ever applied
	c.OnPageChanged(2)

	if c.CurrentPage() != 2 {
		t.Errorf("Expected current page 2, got %d", c.CurrentPage())
	}
	if _, ok := c.PendingPage(); ok {
		t.Error("Stale pending target should be dropped on user scroll")
	}
}

func TestController_OwnershipDisposal(t *testing.T) {
	owned := &fakeSurface{ready: true}
	factory := func(initialPage int, fraction float64) ScrollSurface { return owned }

	c := NewController(factory)
	c.Initialize(10, 0, nil, 1.0)

	// An externally supplied surface replaces the owned one: the owned
	// surface is disposed, the adopted one never is.
	adopted := &fakeSurface{ready: true}
	c.AttachSurface(adopted)

	if !owned.disposed {
		t.Error("Controller-owned surface should be disposed on replacement")
	}

	c.Detach()
	if adopted.disposed {
		t.Error("Externally supplied surface must not be disposed by the controller")
	}
}

func TestController_RebuildPreservesLivePosition(t *testing.T) {
	var built []*fakeSurface
	factory := func(initialPage int, fraction float64) ScrollSurface {
		s := &fakeSurface{ready: true, position: initialPage, hasPos: true}
		built = append(built, s)
		return s
	}

	c := NewController(factory)
	c.Initialize(10, 3, nil, 1.0)

	// User scrolled to page 6 without the controller hearing about it
	built[0].position = 6

	c.Rebuild(0.8)

	if len(built) != 2 {
		t.Fatalf("Expected a second surface, got %d", len(built))
	}
	if !built[0].disposed {
		t.Error("Old owned surface should be disposed on rebuild")
	}
	if c.CurrentPage() != 6 {
		t.Errorf("Rebuild should adopt the live surface position, got %d", c.CurrentPage())
	}
	if len(built[1].jumps) != 1 || built[1].jumps[0] != 6 {
		t.Errorf("New surface should be jumped to the preserved page, got %v", built[1].jumps)
	}
}

func TestController_ReentrantAttachIgnored(t *testing.T) {
	var queue []func()
	c := NewController(nil)
	c.SetScheduler(func(fn func()) { queue = append(queue, fn) })
	c.Initialize(10, 0, nil, 1.0)

	first := &fakeSurface{ready: true}
	second := &fakeSurface{ready: true}

	c.AttachSurface(first)
	// Attach storm: a second attach lands before the first one's
	// deferred apply has run. It must be ignored.
	c.AttachSurface(second)

	if len(queue) != 1 {
		t.Fatalf("Expected exactly one deferred apply, got %d", len(queue))
	}
	for _, fn := range queue {
		fn()
	}

	if !c.Attached() {
		t.Fatal("Controller should be attached")
	}
	if len(second.jumps) != 0 {
		t.Errorf("Ignored attach should not drive the second surface, got %v", second.jumps)
	}
}

func TestController_RebuildDuringAttachParkedAndDrained(t *testing.T) {
	var queue []func()
	var fractions []float64
	var built []*fakeSurface
	factory := func(initialPage int, fraction float64) ScrollSurface {
		fractions = append(fractions, fraction)
		s := &fakeSurface{ready: true, position: initialPage, hasPos: true}
		built = append(built, s)
		return s
	}

	c := NewController(factory)
	c.SetScheduler(func(fn func()) { queue = append(queue, fn) })
	c.Initialize(10, 0, nil, 1.0)

	// The initial attach has not drained yet; the fraction correction
	// lands mid-flight and must not be lost.
	c.Rebuild(0.6)
	c.Rebuild(0.7)

	for len(queue) > 0 {
		fn := queue[0]
		queue = queue[1:]
		fn()
	}

	if len(built) != 2 {
		t.Fatalf("Expected the parked rebuild to run after the attach, got %d surfaces", len(built))
	}
	if fractions[1] != 0.7 {
		t.Errorf("Parked rebuild should use the latest fraction, got %v", fractions[1])
	}
	if !built[0].disposed {
		t.Error("Placeholder surface should be disposed by the drained rebuild")
	}
	if !c.Attached() {
		t.Fatal("Controller should end attached")
	}
}

func TestController_SubscribeNotifies(t *testing.T) {
	c := NewController(nil)
	c.Initialize(10, 0, &fakeSurface{ready: true}, 1.0)

	var got []int
	unsub := c.Subscribe(func(page int) { got = append(got, page) })

	c.GotoPage(2)
	c.OnPageChanged(3)
	unsub()
	c.GotoPage(4)

	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Expected notifications [2 3], got %v", got)
	}
}
