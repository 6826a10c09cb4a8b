package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up     key.Binding
	down   key.Binding
	esc    key.Binding
	quit   key.Binding
	sync   key.Binding
	delete key.Binding
	copy   key.Binding
	info   key.Binding
	yes    key.Binding
	no     key.Binding
}

var keys = keyMap{
	up:     key.NewBinding(key.WithKeys("up", "k")),
	down:   key.NewBinding(key.WithKeys("down", "j")),
	esc:    key.NewBinding(key.WithKeys("esc")),
	quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
	sync:   key.NewBinding(key.WithKeys("s")),
	delete: key.NewBinding(key.WithKeys("d")),
	copy:   key.NewBinding(key.WithKeys("c")),
	info:   key.NewBinding(key.WithKeys("i")),
	yes:    key.NewBinding(key.WithKeys("y")),
	no:     key.NewBinding(key.WithKeys("n", "esc")),
}
