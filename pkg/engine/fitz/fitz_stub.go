//go:build !fitz
// +build !fitz

package fitz

import (
	"context"
	"fmt"

	"github.com/pndaza/just-pdf-viewer/pkg/engine"
)

// Opener is stubbed out when the binary is built without the fitz tag.
func Opener() engine.Opener {
	return engine.OpenerFunc(func(context.Context, []byte, engine.OpenConfig) (engine.Document, error) {
		return nil, engine.NewOpenError(engine.ErrIO,
			fmt.Errorf("built without MuPDF support; rebuild with -tags fitz"))
	})
}
