package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Zoom  key.Binding
	Grid  key.Binding
	Rerun key.Binding
	Back  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Zoom, k.Grid, k.Rerun, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Zoom, k.Back},
		{k.Grid, k.Rerun, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Next:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next panel")),
	Prev:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev panel")),
	Zoom:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "zoom")),
	Grid:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grid lines")),
	Rerun: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "re-run")),
	Back:  key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
