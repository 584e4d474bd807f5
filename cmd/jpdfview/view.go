package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pndaza/just-pdf-viewer/cmd/jpdfview/internal/config"
	"github.com/pndaza/just-pdf-viewer/cmd/jpdfview/internal/ui"
	"github.com/pndaza/just-pdf-viewer/internal/cache"
	"github.com/pndaza/just-pdf-viewer/pkg/colormode"
	"github.com/pndaza/just-pdf-viewer/pkg/debug"
	"github.com/pndaza/just-pdf-viewer/pkg/engine"
	"github.com/pndaza/just-pdf-viewer/pkg/engine/fitz"
	"github.com/pndaza/just-pdf-viewer/pkg/remote"
	"github.com/pndaza/just-pdf-viewer/pkg/source"
	"github.com/pndaza/just-pdf-viewer/pkg/viewport"
)

func newViewCommand() *cobra.Command {
	var (
		configPath string
		page       int
		axisName   string
		minScale   float64
		maxScale   float64
		modeName   string
		watch      bool
		follow     bool
		followAddr string
		password   string
		debugLog   bool
	)

	cmd := &cobra.Command{
		Use:   "view <file-or-url>",
		Short: "View a PDF document",
		Long: `View opens a PDF from a local path or an http(s) URL and renders it
in the terminal. Keyboard reference is available with '?'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Flags the user set override the file.
			if cmd.Flags().Changed("page") {
				cfg.View.Page = page
			}
			if cmd.Flags().Changed("axis") {
				cfg.View.Axis = axisName
			}
			if cmd.Flags().Changed("scale-min") {
				cfg.Zoom.MinScale = minScale
			}
			if cmd.Flags().Changed("scale-max") {
				cfg.Zoom.MaxScale = maxScale
			}
			if cmd.Flags().Changed("color-mode") {
				cfg.View.ColorMode = modeName
			}
			if cmd.Flags().Changed("watch") {
				cfg.View.Watch = watch
			}
			if cmd.Flags().Changed("follow") {
				cfg.Follow.Enabled = follow
			}
			if cmd.Flags().Changed("follow-addr") {
				cfg.Follow.Addr = followAddr
			}

			if debugLog {
				debug.EnableLogging()
			}

			return runView(args[0], cfg, password)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/jpdfview/config.yaml)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "initial page (1-based)")
	cmd.Flags().StringVar(&axisName, "axis", "vertical", "scroll axis (vertical|horizontal)")
	cmd.Flags().Float64Var(&minScale, "scale-min", 1.0, "minimum zoom scale")
	cmd.Flags().Float64Var(&maxScale, "scale-max", 4.0, "maximum zoom scale")
	cmd.Flags().StringVar(&modeName, "color-mode", "normal", "color mode (normal|inverted|grayscale|sepia|night)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the file changes on disk")
	cmd.Flags().BoolVar(&follow, "follow", false, "serve the reading position for followers")
	cmd.Flags().StringVar(&followAddr, "follow-addr", ":8417", "follow server listen address")
	cmd.Flags().StringVar(&password, "password", "", "document password")
	cmd.Flags().BoolVar(&debugLog, "debug", false, "log viewer internals to stderr")

	return cmd
}

func runView(target string, cfg *config.Config, password string) error {
	axis, err := viewport.ParseAxis(cfg.View.Axis)
	if err != nil {
		return err
	}
	mode, err := colormode.Parse(cfg.View.ColorMode)
	if err != nil {
		return err
	}

	var src source.Source
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		src = source.FromURI(target, nil)
	} else {
		abs, err := filepath.Abs(target)
		if err != nil {
			return err
		}
		src = source.FromFile(abs)
	}

	var openCfg engine.OpenConfig
	if password != "" {
		openCfg.Password = func() (string, error) { return password, nil }
	}

	var followSrv *remote.Server
	if cfg.Follow.Enabled {
		followSrv = remote.NewServer()
		mux := http.NewServeMux()
		mux.HandleFunc("/follow", followSrv.HandleWebSocket)
		go func() {
			if err := http.ListenAndServe(cfg.Follow.Addr, mux); err != nil {
				fmt.Fprintln(os.Stderr, "follow server:", err)
			}
		}()
		defer followSrv.Close()
	}

	snapping := true
	if cfg.View.PageSnapping != nil {
		snapping = *cfg.View.PageSnapping
	}

	model, err := ui.New(ui.Options{
		Source:      src,
		OpenConfig:  openCfg,
		Opener:      fitz.Opener(),
		MinScale:    cfg.Zoom.MinScale,
		MaxScale:    cfg.Zoom.MaxScale,
		InitialPage: cfg.View.Page - 1,
		Axis:        axis,
		PageSnap:    snapping,
		ColorMode:   mode,
		Cache: cache.Config{
			MaxBytes:   int64(cfg.Cache.MaxMB) << 20,
			MaxEntries: cfg.Cache.MaxEntries,
		},
		Follow: followSrv,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())

	var stopWatch func()
	if cfg.View.Watch && src.Kind() == source.KindFile {
		stopWatch, err = watchFile(src.Path(), func() {
			p.Send(ui.ReloadMsg{})
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", src.Path(), err)
		}
		defer stopWatch()
	}

	_, err = p.Run()
	return err
}

// watchFile reloads on writes to path. Editors and build tools often
// replace the file rather than write in place, so the parent directory
// is watched and events are debounced before triggering.
func watchFile(path string, onChange func()) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		debounce := time.NewTimer(0)
		<-debounce.C
		pending := false
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				pending = true
				debounce.Reset(100 * time.Millisecond)
			case <-debounce.C:
				if pending {
					pending = false
					onChange()
				}
			case <-watcher.Errors:
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
