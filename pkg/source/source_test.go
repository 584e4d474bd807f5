package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/pndaza/just-pdf-viewer/pkg/engine"
)

func TestFromMemory(t *testing.T) {
	data := []byte("%PDF-1.7 fake")
	s := FromMemory(data)

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Expected buffer round-trip, got %q", got)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FromFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != "%PDF-1.4" {
		t.Errorf("Unexpected file contents %q", got)
	}
}

func TestFromFile_MissingIsIOError(t *testing.T) {
	_, err := FromFile("/nonexistent/doc.pdf").Load(context.Background())

	var oe *engine.OpenError
	if !errors.As(err, &oe) || oe.Kind != engine.ErrIO {
		t.Errorf("Expected IO OpenError, got %v", err)
	}
}

func TestFromAsset(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/sample.pdf": &fstest.MapFile{Data: []byte("%PDF-asset")},
	}

	got, err := FromAsset(fsys, "docs/sample.pdf").Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != "%PDF-asset" {
		t.Errorf("Unexpected asset contents %q", got)
	}
}

func TestFromURI(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("%PDF-remote"))
	}))
	defer srv.Close()

	s := FromURI(srv.URL, map[string]string{"Authorization": "Bearer token"})
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != "%PDF-remote" {
		t.Errorf("Unexpected body %q", got)
	}
	if gotAuth != "Bearer token" {
		t.Errorf("Expected request header forwarded, got %q", gotAuth)
	}
}

func TestFromURI_ErrorStatusIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FromURI(srv.URL, nil).Load(context.Background())

	var oe *engine.OpenError
	if !errors.As(err, &oe) || oe.Kind != engine.ErrNetwork {
		t.Errorf("Expected network OpenError, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := (Source{}).Validate(); err == nil {
		t.Error("Zero source should fail validation")
	}
	if err := FromMemory(nil).Validate(); err == nil {
		t.Error("Empty memory source should fail validation")
	}
	if err := FromFile("a.pdf").Validate(); err != nil {
		t.Errorf("File source should validate, got %v", err)
	}
}
