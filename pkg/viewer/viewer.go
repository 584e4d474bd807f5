// Package viewer ties the viewing core together: one Viewer owns a
// document session, a page navigation controller, a zoom controller and
// the layout coordinator, and exposes the outbound notification surface
// the application layer consumes. The visual layer plugs in through the
// scroll-surface factory and the zoom animator; the viewer itself never
// draws anything.
package viewer

import (
	"context"
	"fmt"

	"github.com/pndaza/just-pdf-viewer/pkg/engine"
	"github.com/pndaza/just-pdf-viewer/pkg/nav"
	"github.com/pndaza/just-pdf-viewer/pkg/session"
	"github.com/pndaza/just-pdf-viewer/pkg/source"
	"github.com/pndaza/just-pdf-viewer/pkg/transform"
	"github.com/pndaza/just-pdf-viewer/pkg/viewport"
	"github.com/pndaza/just-pdf-viewer/pkg/zoom"
)

// Reconciliation defaults; tunable through Options.
const (
	defaultSizeEpsilon     = 1.0
	defaultFractionEpsilon = 0.01
)

// debugLog is set by the debug package
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// ConfigurationError marks an invalid viewer configuration. It is raised
// eagerly at construction, never deferred into the async flow.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "viewer configuration: " + e.Reason
}

// Options configures the viewer behavior
type Options struct {
	// Scale bounds for the zoom controller
	MinScale float64 // default 1.0
	MaxScale float64 // default 4.0

	// InitialPage is the 0-based page shown after the first load
	InitialPage int

	// Axis is the scroll direction (default vertical)
	Axis viewport.Axis

	// PageSnapping asks the visual surface to settle on page boundaries
	PageSnapping bool

	// TouchEnabled enables double-tap zoom. Desktop hosts leave it
	// false; mouse/trackpad input only pans and scrolls.
	TouchEnabled bool

	// Reconciliation thresholds; zero means the defaults
	SizeEpsilon     float64 // default 1.0
	FractionEpsilon float64 // default 0.01

	// Zoom supplies an externally owned zoom controller shared across
	// viewer rebuilds. Nil means the viewer creates and owns one.
	Zoom *zoom.Controller

	// Outbound notifications (optional)
	OnDocumentLoaded   func(engine.Document)
	OnDocumentError    func(error)
	OnPageChanged      func(pageNumber int) // 1-based
	OnTransformChanged func(transform.Matrix)

	// OnDocumentReleased receives the previously displayed document
	// when a reload replaces it; the receiver takes over closing it.
	// Hosts that hold the handle across asynchronous renders use this
	// to close it only once idle. Nil means immediate close.
	OnDocumentReleased func(engine.Document)
}

func (o *Options) withDefaults() Options {
	d := Options{
		MinScale:        1.0,
		MaxScale:        4.0,
		Axis:            viewport.Vertical,
		PageSnapping:    true,
		SizeEpsilon:     defaultSizeEpsilon,
		FractionEpsilon: defaultFractionEpsilon,
	}
	if o == nil {
		return d
	}
	out := *o
	if out.MinScale == 0 {
		out.MinScale = d.MinScale
	}
	if out.MaxScale == 0 {
		out.MaxScale = d.MaxScale
	}
	if out.SizeEpsilon == 0 {
		out.SizeEpsilon = d.SizeEpsilon
	}
	if out.FractionEpsilon == 0 {
		out.FractionEpsilon = d.FractionEpsilon
	}
	return out
}

// Viewer is one viewer instance over one document session.
type Viewer struct {
	opts Options

	sess     *session.Session
	nav      *nav.Controller
	zoomCtrl *zoom.Controller
	ownsZoom bool
	coord    *Coordinator
}

// New builds a viewer. The factory creates scroll surfaces on demand and
// comes from the visual layer; opts may be nil for defaults.
func New(opener engine.Opener, factory nav.SurfaceFactory, opts *Options) (*Viewer, error) {
	o := opts.withDefaults()

	if o.MinScale <= 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("minScale %g must be positive", o.MinScale)}
	}
	if o.MaxScale < o.MinScale {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("maxScale %g below minScale %g", o.MaxScale, o.MinScale),
		}
	}
	if o.InitialPage < 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("initialPage %d is negative", o.InitialPage)}
	}

	v := &Viewer{opts: o}

	v.zoomCtrl = o.Zoom
	v.ownsZoom = o.Zoom == nil
	if v.ownsZoom {
		v.zoomCtrl = zoom.NewController(o.MinScale, o.MaxScale)
	}

	v.nav = nav.NewController(factory)

	v.sess = session.New(opener, session.Callbacks{
		OnLoaded:  v.documentLoaded,
		OnError:   v.documentFailed,
		OnRelease: o.OnDocumentReleased,
	})
	v.sess.Bind(v.nav, v.zoomCtrl, o.InitialPage)

	v.coord = NewCoordinator(v.nav, v.averagePageSize, o.Axis, o.SizeEpsilon, o.FractionEpsilon)

	if o.OnPageChanged != nil {
		v.nav.Subscribe(func(page int) {
			o.OnPageChanged(page + 1)
		})
	}
	if o.OnTransformChanged != nil {
		v.zoomCtrl.Subscribe(o.OnTransformChanged)
	}

	return v, nil
}

// Open starts loading a document, superseding any load in flight.
func (v *Viewer) Open(ctx context.Context, src source.Source, cfg engine.OpenConfig) error {
	return v.sess.Open(ctx, src, cfg)
}

// Layout feeds a container measurement into the viewer.
func (v *Viewer) Layout(w, h float64) {
	v.zoomCtrl.SetViewportSize(w, h)
	v.coord.Layout(w, h)
}

// SetAxis flips the scroll axis, rebuilding the scroll surface in place.
func (v *Viewer) SetAxis(axis viewport.Axis) {
	v.coord.SetAxis(axis)
}

// DoubleTap forwards a double-tap gesture. It is a no-op unless the
// viewer was configured for a touch platform.
func (v *Viewer) DoubleTap(at transform.Point) {
	if !v.opts.TouchEnabled {
		return
	}
	v.zoomCtrl.DoubleTap(at)
}

// Nav returns the page navigation controller.
func (v *Viewer) Nav() *nav.Controller { return v.nav }

// Zoom returns the zoom controller.
func (v *Viewer) Zoom() *zoom.Controller { return v.zoomCtrl }

// Session returns the document session.
func (v *Viewer) Session() *session.Session { return v.sess }

// Coordinator returns the layout coordinator.
func (v *Viewer) Coordinator() *Coordinator { return v.coord }

// Options returns the effective (defaulted) options.
func (v *Viewer) Options() Options { return v.opts }

// Close tears down the viewer. An externally supplied zoom controller is
// left untouched; its owner decides its fate.
func (v *Viewer) Close() error {
	v.nav.Detach()
	err := v.sess.Close()
	if v.ownsZoom {
		v.zoomCtrl.Reset()
	}
	return err
}

func (v *Viewer) averagePageSize() (viewport.Size, bool) {
	doc := v.sess.Document()
	if doc == nil {
		return viewport.Size{}, false
	}
	w, h, err := engine.AveragePageSize(doc)
	if err != nil {
		return viewport.Size{}, false
	}
	return viewport.Size{W: w, H: h}, true
}

func (v *Viewer) documentLoaded(doc engine.Document) {
	if w, h, err := engine.AveragePageSize(doc); err == nil {
		v.zoomCtrl.SetContentSize(w, h)
	}
	// A new document changes the average page size; reconcile against
	// the last known container measurement.
	v.coord.Invalidate()
	if v.opts.OnDocumentLoaded != nil {
		v.opts.OnDocumentLoaded(doc)
	}
}

func (v *Viewer) documentFailed(err error) {
	if v.opts.OnDocumentError != nil {
		v.opts.OnDocumentError(err)
	}
}
