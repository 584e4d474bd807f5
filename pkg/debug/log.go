// Package debug wires a single logging function into the viewer's core
// packages. Logging is off by default; the CLI enables it behind a flag.
package debug

import (
	"log"

	"github.com/pndaza/just-pdf-viewer/pkg/nav"
	"github.com/pndaza/just-pdf-viewer/pkg/session"
	"github.com/pndaza/just-pdf-viewer/pkg/viewer"
	"github.com/pndaza/just-pdf-viewer/pkg/zoom"
)

// EnableLogging enables debug logging for the core packages
func EnableLogging() {
	SetLogFunc(log.Println)
}

// SetLogFunc routes core debug output through fn. A nil fn disables it.
func SetLogFunc(fn func(args ...interface{})) {
	zoom.SetDebugLog(fn)
	nav.SetDebugLog(fn)
	session.SetDebugLog(fn)
	viewer.SetDebugLog(fn)
}
