package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	pause  key.Binding
	resume key.Binding
	quit   key.Binding
	help   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.pause, k.resume, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.pause, k.resume},
		{k.quit, k.help},
	}
}

// forState enables only the bindings that make sense in the given state.
func (k keyMap) forState(running, paused bool) keyMap {
	k.pause.SetEnabled(running)
	k.resume.SetEnabled(paused)
	return k
}
