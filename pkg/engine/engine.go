// Package engine defines the contract between the viewer and the native
// PDF rendering engine. The viewer treats the engine as an opaque service:
// it opens byte buffers into documents, reports intrinsic page sizes, and
// lazily rasterizes pages on demand. Decoding correctness is entirely the
// engine's concern.
package engine

import (
	"context"
	"fmt"
	"image"
)

// OpenConfig carries the options an engine may need while opening.
type OpenConfig struct {
	// Password supplies the document password on demand. Nil when the
	// caller has none; the engine fails with ErrPasswordRequired if one
	// turns out to be needed.
	Password func() (string, error)
	// Progressive requests progressive loading where the engine
	// supports it. Engines without support ignore the flag.
	Progressive bool
}

// Document is an opened document handle. Handles are not safe for
// concurrent use unless the engine documents otherwise.
type Document interface {
	// PageCount returns the number of pages, always >= 1 for a
	// successfully opened document.
	PageCount() int
	// PageSize returns the intrinsic size of page i in points.
	PageSize(i int) (w, h float64, err error)
	// Close releases the handle. Using the handle afterwards is invalid.
	Close() error
}

// Rasterizer is implemented by documents that can produce page rasters.
// The scale multiplies the intrinsic page size.
type Rasterizer interface {
	Render(ctx context.Context, page int, scale float64) (image.Image, error)
}

// Opener opens raw document bytes into a Document.
type Opener interface {
	Open(ctx context.Context, data []byte, cfg OpenConfig) (Document, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, data []byte, cfg OpenConfig) (Document, error)

func (f OpenerFunc) Open(ctx context.Context, data []byte, cfg OpenConfig) (Document, error) {
	return f(ctx, data, cfg)
}

// ErrorKind classifies open failures.
type ErrorKind int

const (
	// ErrIO covers local read failures.
	ErrIO ErrorKind = iota
	// ErrNetwork covers remote fetch failures.
	ErrNetwork
	// ErrCorrupt marks documents the engine cannot parse.
	ErrCorrupt
	// ErrPasswordRequired marks encrypted documents opened without a
	// usable password.
	ErrPasswordRequired
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIO:
		return "io"
	case ErrNetwork:
		return "network"
	case ErrCorrupt:
		return "corrupt"
	case ErrPasswordRequired:
		return "password required"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// OpenError wraps any failure to turn a source into an open document.
type OpenError struct {
	Kind ErrorKind
	Err  error
}

func (e *OpenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("open document: %s", e.Kind)
	}
	return fmt.Sprintf("open document: %s: %v", e.Kind, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// NewOpenError wraps err with a kind. A nil err still produces a valid
// error value carrying the kind alone.
func NewOpenError(kind ErrorKind, err error) *OpenError {
	return &OpenError{Kind: kind, Err: err}
}

// AveragePageSize returns the mean intrinsic page size of doc. Pages whose
// size cannot be read are skipped; a document with no readable pages
// returns an error rather than a zero size.
func AveragePageSize(doc Document) (w, h float64, err error) {
	n := doc.PageCount()
	var sumW, sumH float64
	var counted int
	for i := 0; i < n; i++ {
		pw, ph, perr := doc.PageSize(i)
		if perr != nil || pw <= 0 || ph <= 0 {
			continue
		}
		sumW += pw
		sumH += ph
		counted++
	}
	if counted == 0 {
		return 0, 0, fmt.Errorf("document has no readable page sizes")
	}
	return sumW / float64(counted), sumH / float64(counted), nil
}
