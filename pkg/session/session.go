// Package session orchestrates asynchronous document loading and binds
// the navigation and zoom controllers to the loaded document.
//
// Loads are guarded against staleness: every Open bumps a sequence token
// and only the most recently started load may commit its result. A
// superseded load's document is closed and its outcome discarded, which
// doubles as cancellation: in-flight I/O is never interrupted, its
// result simply never applies.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/pndaza/just-pdf-viewer/pkg/engine"
	"github.com/pndaza/just-pdf-viewer/pkg/nav"
	"github.com/pndaza/just-pdf-viewer/pkg/source"
	"github.com/pndaza/just-pdf-viewer/pkg/zoom"
)

// debugLog is set by the debug package
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// State is the load state of the session.
type State int

const (
	// Idle means no load has been requested yet.
	Idle State = iota
	// Loading means a load is in flight.
	Loading
	// Loaded means a document is open and bound.
	Loaded
	// Failed means the most recent load failed. A previously loaded
	// document, if any, stays displayed.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Callbacks are the outbound notifications the session emits. Any
// field may be nil. Callbacks run on the loading goroutine.
type Callbacks struct {
	OnLoaded func(engine.Document)
	OnError  func(error)

	// OnRelease receives the previously displayed document when a new
	// load replaces it. The receiver takes over closing it, so a host
	// with the handle still in use (a render in flight) can defer the
	// close until it is idle. When nil the session closes the document
	// itself.
	OnRelease func(engine.Document)
}

// Session owns one document lifecycle for a viewer instance.
type Session struct {
	mu sync.Mutex

	opener engine.Opener
	cb     Callbacks

	state State
	err   error
	doc   engine.Document

	// seq is the stale-load guard token; captured at load start and
	// compared at commit.
	seq uint64

	nav         *nav.Controller
	zoomCtrl    *zoom.Controller
	initialPage int
}

// New creates an idle session using the given opener.
func New(opener engine.Opener, cb Callbacks) *Session {
	return &Session{opener: opener, cb: cb}
}

// Bind attaches the controllers the session initializes on each
// successful load. initialPage applies to the first load of a document;
// reloads preserve the navigation controller's current page.
func (s *Session) Bind(n *nav.Controller, z *zoom.Controller, initialPage int) {
	s.mu.Lock()
	s.nav = n
	s.zoomCtrl = z
	s.initialPage = initialPage
	s.mu.Unlock()
}

// State returns the current load state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the most recent failed load.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Document returns the open document, nil unless a load has committed.
func (s *Session) Document() engine.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Open starts a new asynchronous load, superseding any load in flight.
// Configuration problems (an invalid source) are reported synchronously;
// everything downstream is reported through the callbacks. Identical
// source+config reopens are not deduplicated here; callers decide.
func (s *Session) Open(ctx context.Context, src source.Source, cfg engine.OpenConfig) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	s.mu.Lock()
	s.seq++
	token := s.seq
	s.state = Loading
	s.mu.Unlock()

	if debugLog != nil {
		debugLog("[Session] Load", token, "started:", src.Describe())
	}

	go s.load(ctx, token, src, cfg)
	return nil
}

func (s *Session) load(ctx context.Context, token uint64, src source.Source, cfg engine.OpenConfig) {
	data, err := src.Load(ctx)
	if err != nil {
		s.commitError(token, err)
		return
	}

	doc, err := s.opener.Open(ctx, data, cfg)
	if err != nil {
		s.commitError(token, err)
		return
	}
	s.commit(token, doc)
}

// commit applies a successful load, unless a newer load has started.
func (s *Session) commit(token uint64, doc engine.Document) {
	s.mu.Lock()
	if token != s.seq {
		s.mu.Unlock()
		// Superseded: the result is discarded, never applied
		if debugLog != nil {
			debugLog("[Session] Load", token, "is stale, discarding")
		}
		doc.Close()
		return
	}

	prev := s.doc
	s.doc = doc
	s.state = Loaded
	s.err = nil

	n := s.nav
	z := s.zoomCtrl
	initialPage := s.initialPage
	onLoaded := s.cb.OnLoaded
	onRelease := s.cb.OnRelease
	firstLoad := prev == nil
	s.mu.Unlock()

	// The replaced document may still be mid-use by the host (a render
	// in flight); closing is handed over when a receiver exists.
	if prev != nil {
		if onRelease != nil {
			onRelease(prev)
		} else {
			prev.Close()
		}
	}

	if n != nil {
		page := initialPage
		if !firstLoad {
			page = n.CurrentPage()
		}
		n.Initialize(doc.PageCount(), page, nil, 1.0)
	}
	if z != nil {
		if w, h, err := engine.AveragePageSize(doc); err == nil {
			z.SetContentSize(w, h)
		}
	}

	if debugLog != nil {
		debugLog("[Session] Load", token, "committed,", doc.PageCount(), "pages")
	}
	if onLoaded != nil {
		onLoaded(doc)
	}
}

// commitError records a failed load, unless a newer load has started.
// A previously displayed document is left undisturbed.
func (s *Session) commitError(token uint64, err error) {
	s.mu.Lock()
	if token != s.seq {
		s.mu.Unlock()
		if debugLog != nil {
			debugLog("[Session] Stale load", token, "failed late, ignoring:", err)
		}
		return
	}
	s.state = Failed
	s.err = err
	onError := s.cb.OnError
	s.mu.Unlock()

	if debugLog != nil {
		debugLog("[Session] Load", token, "failed:", err)
	}
	if onError != nil {
		onError(err)
	}
}

// Close releases the open document, if any, and returns the session to
// Idle.
func (s *Session) Close() error {
	s.mu.Lock()
	doc := s.doc
	s.doc = nil
	s.state = Idle
	s.err = nil
	s.seq++ // invalidate any in-flight load
	s.mu.Unlock()

	if doc != nil {
		return doc.Close()
	}
	return nil
}
