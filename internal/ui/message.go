package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/getlrc/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgBusClosed
)

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// busClosedMsg is the constructor for [MsgBusClosed]
func busClosedMsg() Msg {
	return Msg{kind: MsgBusClosed}
}
