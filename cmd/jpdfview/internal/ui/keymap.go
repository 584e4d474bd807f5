package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the viewer
type KeyMap struct {
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	GotoPage  key.Binding

	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ResetZoom key.Binding
	FitWidth  key.Binding
	FitHeight key.Binding
	FitScreen key.Binding
	Center    key.Binding

	FlipAxis  key.Binding
	ColorMode key.Binding
	Reload    key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the standard set of bindings
var DefaultKeyMap = KeyMap{
	NextPage: key.NewBinding(
		key.WithKeys("right", "l", "pgdown", " "),
		key.WithHelp("→/l/space", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left", "h", "pgup"),
		key.WithHelp("←/h", "previous page"),
	),
	FirstPage: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g/home", "first page"),
	),
	LastPage: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G/end", "last page"),
	),
	GotoPage: key.NewBinding(
		key.WithKeys(":"),
		key.WithHelp(":", "go to page"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	ResetZoom: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset zoom"),
	),
	FitWidth: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "fit width"),
	),
	FitHeight: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "fit height"),
	),
	FitScreen: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit screen"),
	),
	Center: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "center"),
	),
	FlipAxis: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "flip scroll axis"),
	),
	ColorMode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "cycle color mode"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
