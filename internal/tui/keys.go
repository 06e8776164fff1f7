package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the set of global key bindings.
type KeyMap struct {
	Quit     key.Binding
	Dates    key.Binding
	Units    key.Binding
	Messages key.Binding
	Help     key.Binding
	Back     key.Binding
	Ersed    key.Binding
	Reload   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Dates:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dates")),
		Units:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "units")),
		Messages: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "validation")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Ersed:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "toggle ERSED")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

// ShortHelp lists the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dates, k.Units, k.Messages, k.Ersed, k.Reload, k.Help, k.Quit}
}
