package ui

import (
	"context"
	"image"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pndaza/just-pdf-viewer/pkg/engine"
	"github.com/pndaza/just-pdf-viewer/pkg/source"
)

// stubDoc is a rasterizing engine.Document for model tests.
type stubDoc struct {
	pages  int
	closed bool
}

func (d *stubDoc) PageCount() int                         { return d.pages }
func (d *stubDoc) PageSize(int) (float64, float64, error) { return 100, 200, nil }
func (d *stubDoc) Close() error {
	d.closed = true
	return nil
}
func (d *stubDoc) Render(ctx context.Context, page int, scale float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 10, 20)), nil
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	opener := engine.OpenerFunc(func(context.Context, []byte, engine.OpenConfig) (engine.Document, error) {
		return &stubDoc{pages: 3}, nil
	})
	m, err := New(Options{
		Source:   source.FromMemory([]byte("%PDF")),
		Opener:   opener,
		MinScale: 1,
		MaxScale: 4,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(*Model)
}

func TestModel_ReleasedDocumentClosesAfterRenderDrains(t *testing.T) {
	m := newTestModel(t)

	old := &stubDoc{pages: 3}
	fresh := &stubDoc{pages: 3}

	// The reload commits: the new document arrives and a render is
	// issued against it before the old handle is released.
	next, _ := m.Update(docLoadedMsg{doc: fresh})
	m = next.(*Model)
	if m.renders == 0 {
		t.Fatal("Loading a sized rasterizing document should issue a render")
	}

	next, _ = m.Update(docReleasedMsg{doc: old})
	m = next.(*Model)
	if old.closed {
		t.Fatal("Released document must not close while a render is in flight")
	}

	next, _ = m.Update(rasterMsg{key: m.rasterKey(), view: "page"})
	m = next.(*Model)
	if m.renders != 0 {
		t.Fatalf("renders = %d after drain, want 0", m.renders)
	}
	if !old.closed {
		t.Error("Released document should close once renders drain")
	}
}

func TestModel_ReleasedDocumentClosesImmediatelyWhenIdle(t *testing.T) {
	m := newTestModel(t)

	old := &stubDoc{pages: 3}
	next, _ := m.Update(docReleasedMsg{doc: old})
	m = next.(*Model)

	if !old.closed {
		t.Error("With no render in flight the released document closes at once")
	}
}

func TestEventQueue_PreservesOrder(t *testing.T) {
	q := newEventQueue()
	const n = 500
	for i := 0; i < n; i++ {
		q.push(pageShownMsg{page: i})
	}
	for i := 0; i < n; i++ {
		msg := q.pop().(pageShownMsg)
		if msg.page != i {
			t.Fatalf("pop %d returned page %d, order broken", i, msg.page)
		}
	}
}
