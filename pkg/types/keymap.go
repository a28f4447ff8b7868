package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the browser.
// It lives in pkg/types so both the model and its views can share it.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Navigation
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding // Enter a directory or toggle focus on a file
	Parent      key.Binding
	Home        key.Binding
	SiblingPrev key.Binding
	SiblingNext key.Binding
	Reload      key.Binding

	// Viewer
	FocusPrev key.Binding
	FocusNext key.Binding
	Unfocus   key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	PanUp     key.Binding
	PanDown   key.Binding
	PanLeft   key.Binding
	PanRight  key.Binding
	Play      key.Binding

	// Selection & Actions
	Select       key.Binding
	Encrypt      key.Binding
	Shred        key.Binding
	EnterCmdMode key.Binding

	// Albums & comments
	Comment   key.Binding
	Authorize key.Binding // Prompts for the password of the album at the cursor
	Lock      key.Binding

	// Confirm / Command mode
	Confirm    key.Binding
	Cancel     key.Binding
	ExecuteCmd key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/focus")),
		Parent:      key.NewBinding(key.WithKeys("u", "backspace"), key.WithHelp("u", "parent dir")),
		Home:        key.NewBinding(key.WithKeys("~"), key.WithHelp("~", "home")),
		SiblingPrev: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "prev sibling dir")),
		SiblingNext: key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "next sibling dir")),
		Reload:      key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "reload")),

		FocusPrev: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev image")),
		FocusNext: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next image")),
		Unfocus:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close viewer")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		PanUp:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "pan up")),
		PanDown:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "pan down")),
		PanLeft:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "pan left")),
		PanRight:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "pan right")),
		Play:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "load media")),

		Select:       key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		Encrypt:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "encrypt selected")),
		Shred:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "shred selected")),
		EnterCmdMode: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),

		Comment:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "show comment")),
		Authorize: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "unlock album")),
		Lock:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "lock album")),

		Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		ExecuteCmd: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Select, k.Encrypt, k.Shred, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Parent, k.Home, k.SiblingPrev, k.SiblingNext, k.Reload},
		{k.FocusPrev, k.FocusNext, k.Unfocus, k.ZoomIn, k.ZoomOut, k.Play},
		{k.PanUp, k.PanDown, k.PanLeft, k.PanRight},
		{k.Select, k.Encrypt, k.Shred, k.Comment, k.Authorize, k.Lock},
		{k.EnterCmdMode, k.Help, k.Quit},
	}
}
