// Package ui implements the terminal viewer: a bubbletea program whose
// event-loop turns drive the viewing core. Window size messages are the
// layout measurements, key presses are the gestures, and the tick
// messages are the animation clock.
package ui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pndaza/just-pdf-viewer/internal/cache"
	"github.com/pndaza/just-pdf-viewer/pkg/colormode"
	"github.com/pndaza/just-pdf-viewer/pkg/engine"
	"github.com/pndaza/just-pdf-viewer/pkg/remote"
	"github.com/pndaza/just-pdf-viewer/pkg/source"
	"github.com/pndaza/just-pdf-viewer/pkg/viewer"
	"github.com/pndaza/just-pdf-viewer/pkg/viewport"
	"github.com/pndaza/just-pdf-viewer/pkg/zoom"
)

// frameInterval is the animation frame budget.
const frameInterval = 16 * time.Millisecond

// chromeRows is the number of terminal rows used by the header and
// status bar around the page area.
const chromeRows = 2

// Messages flowing through the program.
type (
	docLoadedMsg   struct{ doc engine.Document }
	docErrorMsg    struct{ err error }
	docReleasedMsg struct{ doc engine.Document }
	pageShownMsg   struct{ page int }
	navApplyMsg    struct{ fn func() }
	tickMsg        time.Time
)

type rasterMsg struct {
	key  cache.Key
	view string
}

// ReloadMsg asks the viewer to reload its source. The file watcher
// sends it from outside the program.
type ReloadMsg struct{}

// Options configures the terminal viewer
type Options struct {
	Source     source.Source
	OpenConfig engine.OpenConfig
	Opener     engine.Opener

	MinScale    float64
	MaxScale    float64
	InitialPage int // 0-based
	Axis        viewport.Axis
	PageSnap    bool
	ColorMode   colormode.Mode

	Cache cache.Config

	// Follow is the optional follow-mode broadcast server
	Follow *remote.Server
}

// Model is the bubbletea application state
type Model struct {
	keys KeyMap

	width  int
	height int
	sized  bool

	v       *viewer.Viewer
	src     source.Source
	openCfg engine.OpenConfig

	doc     engine.Document
	loading bool
	loadErr error

	mode    colormode.Mode
	rasters *cache.Cache

	pageView string

	// renders counts raster commands in flight; a replaced document is
	// retired rather than closed while its handle may still be in use.
	renders int
	retired []engine.Document

	follow *remote.Server

	spinner   spinner.Model
	pageInput textinput.Model
	entering  bool
	showHelp  bool
	statusMsg string

	events    *eventQueue
	animStep  func(time.Duration) bool
	animating bool
}

// eventQueue carries core callbacks into the program loop. It is
// unbounded and FIFO: producers never block and never reorder, which
// matters for navigation applies racing page-shown notifications.
type eventQueue struct {
	mu    sync.Mutex
	items []tea.Msg
	wake  chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{wake: make(chan struct{}, 1)}
}

func (q *eventQueue) push(msg tea.Msg) {
	q.mu.Lock()
	q.items = append(q.items, msg)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// pop blocks until a message is available. Single consumer.
func (q *eventQueue) pop() tea.Msg {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			msg := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return msg
		}
		q.mu.Unlock()
		<-q.wake
	}
}

// New builds the model and wires the viewer core into the event loop.
func New(opts Options) (*Model, error) {
	m := &Model{
		keys:    DefaultKeyMap,
		src:     opts.Source,
		openCfg: opts.OpenConfig,
		mode:    opts.ColorMode,
		rasters: cache.New(opts.Cache),
		follow:  opts.Follow,
		loading: true,
		events:  newEventQueue(),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	m.spinner = sp

	ti := textinput.New()
	ti.Placeholder = "page"
	ti.CharLimit = 6
	ti.Width = 8
	m.pageInput = ti

	factory := surfaceFactory(func(page int) {
		m.post(pageShownMsg{page: page})
	})

	v, err := viewer.New(opts.Opener, factory, &viewer.Options{
		MinScale:     opts.MinScale,
		MaxScale:     opts.MaxScale,
		InitialPage:  opts.InitialPage,
		Axis:         opts.Axis,
		PageSnapping: opts.PageSnap,
		OnDocumentLoaded: func(doc engine.Document) {
			if m.follow != nil {
				m.follow.BroadcastLoaded(doc.PageCount())
			}
			m.post(docLoadedMsg{doc: doc})
		},
		OnDocumentError: func(err error) {
			if m.follow != nil {
				m.follow.BroadcastError(err)
			}
			m.post(docErrorMsg{err: err})
		},
		OnPageChanged: func(page int) {
			if m.follow != nil {
				m.follow.BroadcastPage(page)
			}
		},
		OnDocumentReleased: func(doc engine.Document) {
			m.post(docReleasedMsg{doc: doc})
		},
	})
	if err != nil {
		return nil, err
	}
	m.v = v

	// Navigation applies on the next program turn, mirroring the
	// surface's post-layout readiness.
	v.Nav().SetScheduler(func(fn func()) {
		m.post(navApplyMsg{fn: fn})
	})

	animator, step := zoom.StepAnimator()
	v.Zoom().SetAnimator(animator)
	m.animStep = step

	return m, nil
}

// post delivers a message to the program loop without blocking the
// caller; load callbacks arrive from other goroutines.
func (m *Model) post(msg tea.Msg) {
	m.events.push(msg)
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg { return m.events.pop() }
}

func (m *Model) openCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.v.Open(context.Background(), m.src, m.openCfg); err != nil {
			return docErrorMsg{err: err}
		}
		return nil
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// startAnim begins the frame clock for a zoom transition. At most one
// tick chain runs; a transition started mid-flight reuses it.
func (m *Model) startAnim() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return tick()
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen(), m.openCmd())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sized = true
		// One cell is one unit wide and, with half-block rendering,
		// two units tall.
		m.v.Layout(float64(m.width), float64(m.contentRows()*2))
		return m, m.renderCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case navApplyMsg:
		msg.fn()
		return m, m.listen()

	case pageShownMsg:
		m.statusMsg = ""
		return m, tea.Batch(m.listen(), m.renderCmd())

	case docLoadedMsg:
		m.doc = msg.doc
		m.loading = false
		m.loadErr = nil
		m.rasters.Invalidate()
		return m, tea.Batch(m.listen(), m.renderCmd())

	case docErrorMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, m.listen()

	case docReleasedMsg:
		// The old handle closes only once no render command may still
		// be reading it.
		if m.renders == 0 {
			msg.doc.Close()
		} else {
			m.retired = append(m.retired, msg.doc)
		}
		return m, m.listen()

	case ReloadMsg:
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.openCmd())

	case tickMsg:
		if m.animStep != nil && m.animStep(frameInterval) {
			m.animating = true
			return m, tea.Batch(tick(), m.renderCmd())
		}
		if m.animating {
			m.animating = false
			return m, m.renderCmd()
		}
		return m, nil

	case rasterMsg:
		if m.renders > 0 {
			m.renders--
		}
		if m.renders == 0 && len(m.retired) > 0 {
			for _, doc := range m.retired {
				doc.Close()
			}
			m.retired = nil
		}
		if msg.view != "" && msg.key == m.rasterKey() {
			m.pageView = msg.view
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) contentRows() int {
	rows := m.height - chromeRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

// rasterKey identifies the raster the view currently wants.
func (m *Model) rasterKey() cache.Key {
	return cache.Key{
		Page:  m.v.Nav().CurrentPage(),
		Scale: m.v.Zoom().Scale(),
		Mode:  m.mode.String(),
	}
}
