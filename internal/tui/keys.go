package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for a drill session
type KeyMap struct {
	Flip      key.Binding
	Correct   key.Binding
	Incorrect key.Binding
	Skip      key.Binding
	Stats     key.Binding
	Quit      key.Binding
	Abort     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Flip: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "flip"),
		),
		Correct: key.NewBinding(
			key.WithKeys("y", "right"),
			key.WithHelp("y/→", "knew it"),
		),
		Incorrect: key.NewBinding(
			key.WithKeys("n", "left"),
			key.WithHelp("n/←", "missed it"),
		),
		Skip: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "skip"),
		),
		Stats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stats"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "save & quit"),
		),
		Abort: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "quit without saving"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Correct, k.Incorrect, k.Skip, k.Stats, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flip, k.Correct, k.Incorrect, k.Skip},
		{k.Stats, k.Quit, k.Abort},
	}
}
