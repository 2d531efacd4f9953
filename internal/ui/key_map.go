package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	filter    key.Binding
	watchlist key.Binding
	rate      key.Binding
	open      key.Binding
	login     key.Binding
	logout    key.Binding
	refresh   key.Binding
	next      key.Binding
	remember  key.Binding
	google    key.Binding
	facebook  key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		watchlist: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watchlist")),
		rate:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "rate")),
		open:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "open in browser")),
		login:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
		logout:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		next:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		remember:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "remember me")),
		google:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "google")),
		facebook:  key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "facebook")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.filter},
		{k.watchlist, k.rate, k.open},
		{k.login, k.logout, k.refresh, k.quit},
	}
}
