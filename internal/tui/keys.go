package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right, Up, Down key.Binding
	Sequence, Unblocked   key.Binding
	Detail, Back          key.Binding
	Refresh               key.Binding
	Quit, ForceQuit       key.Binding
}

var keys = keyMap{
	Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "column")),
	Right:     key.NewBinding(key.WithKeys("l", "right")),
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "card")),
	Down:      key.NewBinding(key.WithKeys("j", "down")),
	Sequence:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sequence")),
	Unblocked: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unblocked")),
	Detail:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
	Back:      key.NewBinding(key.WithKeys(keyEsc)),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.Sequence, k.Unblocked, k.Detail, k.Refresh, k.Quit}
}
