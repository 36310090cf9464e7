package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Open     key.Binding
	Close    key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
	Reset    key.Binding
	Debug    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next panel")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev panel")),
		Open:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),
		Close:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "close")),
		ScrollUp: key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑/k", "scroll up")),
		ScrollDn: key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓/j", "scroll down")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Debug:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debug")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Open, k.Close, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Open, k.Close},
		{k.ScrollUp, k.ScrollDn},
		{k.Reset, k.Debug, k.Help, k.Quit},
	}
}
