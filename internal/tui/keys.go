package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Focus    key.Binding
	Collapse key.Binding
	Refresh  key.Binding
	More     key.Binding
	Unread   key.Binding
	Star     key.Binding
	Filter   key.Binding
	Order    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdown", "page down")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Collapse: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "collapse/expand")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		More:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "more")),
		Unread:   key.NewBinding(key.WithKeys("u", "m"), key.WithHelp("u", "toggle unread")),
		Star:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle star")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		Order:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "flip order")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
