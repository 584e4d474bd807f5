// Package source provides the byte-source providers a document can be
// loaded from: a file path, an in-memory buffer, an HTTP(S) URI, or an
// asset inside an fs.FS. Exactly one provider backs a Source; the
// constructors enforce this.
package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/pndaza/just-pdf-viewer/pkg/engine"
)

// Kind identifies the provider behind a Source.
type Kind int

const (
	// KindNone marks the zero Source, which is invalid.
	KindNone Kind = iota
	// KindFile loads from a local file path.
	KindFile
	// KindMemory serves a caller-supplied byte buffer.
	KindMemory
	// KindURI fetches over HTTP(S).
	KindURI
	// KindAsset loads from an fs.FS.
	KindAsset
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindMemory:
		return "memory"
	case KindURI:
		return "uri"
	case KindAsset:
		return "asset"
	default:
		return "none"
	}
}

// Source describes where document bytes come from. The zero value is
// invalid; use one of the constructors.
type Source struct {
	kind Kind

	path    string
	data    []byte
	uri     string
	headers map[string]string
	fsys    fs.FS
	name    string

	// Client overrides the HTTP client for URI sources. Nil uses
	// http.DefaultClient.
	Client *http.Client
}

// FromFile loads from a local path.
func FromFile(path string) Source {
	return Source{kind: KindFile, path: path}
}

// FromMemory serves the given buffer. The buffer is not copied.
func FromMemory(data []byte) Source {
	return Source{kind: KindMemory, data: data}
}

// FromURI fetches the document over HTTP(S). headers may carry
// authorization or other request headers and may be nil.
func FromURI(uri string, headers map[string]string) Source {
	return Source{kind: KindURI, uri: uri, headers: headers}
}

// FromAsset loads name from the given filesystem.
func FromAsset(fsys fs.FS, name string) Source {
	return Source{kind: KindAsset, fsys: fsys, name: name}
}

// Kind returns the provider kind.
func (s Source) Kind() Kind { return s.kind }

// Describe returns a short human-readable identifier for logging.
func (s Source) Describe() string {
	switch s.kind {
	case KindFile:
		return s.path
	case KindMemory:
		return fmt.Sprintf("memory (%d bytes)", len(s.data))
	case KindURI:
		return s.uri
	case KindAsset:
		return "asset:" + s.name
	default:
		return "<none>"
	}
}

// Path returns the local path of a file source, empty otherwise. Watch
// mode uses it to pick what to observe.
func (s Source) Path() string {
	if s.kind == KindFile {
		return s.path
	}
	return ""
}

// Validate checks the source is usable. A zero Source is a
// configuration error raised eagerly, never deferred into the load.
func (s Source) Validate() error {
	switch s.kind {
	case KindNone:
		return fmt.Errorf("no document source supplied")
	case KindFile:
		if s.path == "" {
			return fmt.Errorf("file source has an empty path")
		}
	case KindMemory:
		if len(s.data) == 0 {
			return fmt.Errorf("memory source has an empty buffer")
		}
	case KindURI:
		if s.uri == "" {
			return fmt.Errorf("uri source has an empty uri")
		}
	case KindAsset:
		if s.fsys == nil || s.name == "" {
			return fmt.Errorf("asset source needs a filesystem and a name")
		}
	}
	return nil
}

// Load resolves the source into raw document bytes. Failures are
// engine.OpenError values with the IO or Network kind.
func (s Source) Load(ctx context.Context) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.kind {
	case KindMemory:
		return s.data, nil
	case KindFile:
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, engine.NewOpenError(engine.ErrIO, err)
		}
		return data, nil
	case KindAsset:
		data, err := fs.ReadFile(s.fsys, s.name)
		if err != nil {
			return nil, engine.NewOpenError(engine.ErrIO, err)
		}
		return data, nil
	case KindURI:
		return s.fetch(ctx)
	default:
		return nil, fmt.Errorf("unsupported source kind %v", s.kind)
	}
}

func (s Source) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.uri, nil)
	if err != nil {
		return nil, engine.NewOpenError(engine.ErrNetwork, err)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, engine.NewOpenError(engine.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, engine.NewOpenError(engine.ErrNetwork,
			fmt.Errorf("fetch %s: unexpected status %s", s.uri, resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, engine.NewOpenError(engine.ErrNetwork, err)
	}
	return data, nil
}
