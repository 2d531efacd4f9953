// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders the same core the CLI drives:
//  1. [MovieListView] : Trending or search results with built-in fuzzy filtering (/)
//  2. [DetailView] : Credits, runtime and the local watchlist/rating state for one movie
//  3. [LoginView] : Email/password form with remember-me and social sign-in
//
// Intents (w toggles the watchlist, 1-5 rates, o logs out) are sent to the tasks dispatcher from a
// command so the latency of login never blocks rendering.
//
// The core reports back through a notify.Feed. Notices are shown as a toast for [ToastDuration];
// navigation requests switch views after the configured redirect delay, so an unauthenticated
// rating attempt lands on the login form and a successful login returns to the listing.
package ui
