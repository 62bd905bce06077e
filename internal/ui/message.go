package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nlandais/top50/internal/models"
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
	MsgSearchResults MsgKind = iota
)

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(albums []models.Album, err error) Msg {
	return Msg{
		kind: MsgSearchResults,
		data: struct {
			albums []models.Album
			err    error
		}{albums, err},
	}
}
