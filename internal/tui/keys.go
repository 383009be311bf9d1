package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NewHand    key.Binding
	Advance    key.Binding
	FocusPrev  key.Binding
	FocusNext  key.Binding
	ClearFocus key.Binding
	Grab       key.Binding
	DragUp     key.Binding
	DragDown   key.Binding
	DragLeft   key.Binding
	DragRight  key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		NewHand:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new hand")),
		Advance:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "open / next card")),
		FocusPrev:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "focus prev")),
		FocusNext:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "focus next")),
		ClearFocus: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "unfocus")),
		Grab:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab / release")),
		DragUp:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "tilt up")),
		DragDown:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "tilt down")),
		DragLeft:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "tilt left")),
		DragRight:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "tilt right")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewHand, k.Advance, k.FocusNext, k.Grab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewHand, k.Advance},
		{k.FocusPrev, k.FocusNext, k.ClearFocus},
		{k.Grab, k.DragUp, k.DragDown, k.DragLeft, k.DragRight},
		{k.Help, k.Quit},
	}
}
