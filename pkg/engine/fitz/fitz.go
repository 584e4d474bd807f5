//go:build fitz
// +build fitz

// Package fitz adapts the MuPDF engine (via github.com/gen2brain/go-fitz)
// to the viewer's engine contract.
package fitz

import (
	"context"
	"fmt"
	"image"
	"strings"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/pndaza/just-pdf-viewer/pkg/engine"
)

// baseDPI is the rendering density at scale 1.0.
const baseDPI = 96.0

// Opener returns an engine.Opener backed by MuPDF.
func Opener() engine.Opener {
	return engine.OpenerFunc(open)
}

func open(_ context.Context, data []byte, _ engine.OpenConfig) (engine.Document, error) {
	doc, err := gofitz.NewFromMemory(data)
	if err != nil {
		return nil, engine.NewOpenError(classify(err), err)
	}
	if doc.NumPage() == 0 {
		doc.Close()
		return nil, engine.NewOpenError(engine.ErrCorrupt, fmt.Errorf("document has no pages"))
	}
	return &document{doc: doc}, nil
}

func classify(err error) engine.ErrorKind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password") || strings.Contains(msg, "encrypted"):
		return engine.ErrPasswordRequired
	default:
		return engine.ErrCorrupt
	}
}

type document struct {
	doc *gofitz.Document
}

func (d *document) PageCount() int { return d.doc.NumPage() }

func (d *document) PageSize(i int) (float64, float64, error) {
	bounds, err := d.doc.Bound(i)
	if err != nil {
		return 0, 0, fmt.Errorf("page %d bounds: %w", i, err)
	}
	return float64(bounds.Dx()), float64(bounds.Dy()), nil
}

func (d *document) Render(_ context.Context, page int, scale float64) (image.Image, error) {
	if scale <= 0 {
		scale = 1.0
	}
	img, err := d.doc.ImageDPI(page, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return img, nil
}

func (d *document) Close() error { return d.doc.Close() }
