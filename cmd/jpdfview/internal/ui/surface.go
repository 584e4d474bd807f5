package ui

import (
	"fmt"
	"sync"

	"github.com/pndaza/just-pdf-viewer/pkg/nav"
)

// termSurface is the terminal's paged scroll surface. A terminal has no
// real layout latency, so a surface is ready as soon as it exists; it
// stays a distinct object per (axis, fraction) configuration so the
// coordinator's rebuild semantics carry over unchanged.
type termSurface struct {
	mu       sync.Mutex
	pos      int
	hasPos   bool
	fraction float64
	disposed bool

	// onShow pushes the page that became visible into the UI loop
	onShow func(page int)
}

func newTermSurface(initialPage int, fraction float64, onShow func(int)) *termSurface {
	s := &termSurface{
		pos:      initialPage,
		hasPos:   true,
		fraction: fraction,
		onShow:   onShow,
	}
	return s
}

func (s *termSurface) JumpTo(page int) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return fmt.Errorf("surface disposed")
	}
	s.pos = page
	s.hasPos = true
	onShow := s.onShow
	s.mu.Unlock()

	if onShow != nil {
		onShow(page)
	}
	return nil
}

func (s *termSurface) CurrentPosition() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, s.hasPos
}

func (s *termSurface) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disposed
}

func (s *termSurface) Dispose() {
	s.mu.Lock()
	s.disposed = true
	s.onShow = nil
	s.mu.Unlock()
}

// surfaceFactory builds the nav.SurfaceFactory feeding shown pages into
// the UI event loop.
func surfaceFactory(onShow func(page int)) nav.SurfaceFactory {
	return func(initialPage int, fraction float64) nav.ScrollSurface {
		return newTermSurface(initialPage, fraction, onShow)
	}
}
