package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/notify"
	"github.com/desertthunder/moviebot/internal/tasks"
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
	MsgMoviesLoaded MsgKind = iota
	MsgDetailLoaded
	MsgIntentDone
	MsgFeedEvent
	MsgToastExpired
	MsgRedirect
)

type detailLoaded struct {
	detail *models.MovieDetail
	item   tasks.BrowseItem
	err    error
}

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(res tasks.BrowseResult) Msg {
	return Msg{kind: MsgMoviesLoaded, data: res}
}

// detailLoadedMsg is the constructor for [MsgDetailLoaded]
func detailLoadedMsg(detail *models.MovieDetail, item tasks.BrowseItem, err error) Msg {
	return Msg{kind: MsgDetailLoaded, data: detailLoaded{detail, item, err}}
}

// intentDoneMsg is the constructor for [MsgIntentDone]
func intentDoneMsg(out tasks.Outcome) Msg {
	return Msg{kind: MsgIntentDone, data: out}
}

// feedEventMsg is the constructor for [MsgFeedEvent]
func feedEventMsg(e notify.Event) Msg {
	return Msg{kind: MsgFeedEvent, data: e}
}

// toastExpiredMsg is the constructor for [MsgToastExpired]
func toastExpiredMsg(seq int) Msg {
	return Msg{kind: MsgToastExpired, data: seq}
}

// redirectMsg is the constructor for [MsgRedirect]
func redirectMsg(to models.Location) Msg {
	return Msg{kind: MsgRedirect, data: to}
}
