// Package tasks sits between the hosts (CLI and TUI) and the core.
//
// # Intents
//
// Hosts translate button presses and commands into an [Intent] and hand it to
// [Dispatcher.Dispatch], which calls the session manager or the collection and waits until the
// action has settled. Login and registration complete after the simulated latency; the dispatcher
// blocks on the returned attempt so the host can repaint from fresh state.
//
// # Browsing
//
// [Engine.Browse] loads trending movies (empty query) or search results through a
// [services.Catalog], then applies the local filters:
//   - genre name fragment
//   - release year fragment
//   - minimum vote average
//   - fuzzy title filter (github.com/sahilm/fuzzy), best match first
//
// Each entry is annotated with watchlist membership and the stored rating. A catalog failure
// degrades to an empty listing with a logged diagnostic.
//
// # Watchlist Report
//
// [Engine.WatchlistReport] looks up the detail record for every watchlist movie using a worker
// pool that shares one [rate.Limiter]. Failed lookups are kept on their entry.
//
// # Progress Reporting
//
// Long operations send [ProgressUpdate] values on an optional channel. Sends use select with
// default so a slow consumer never blocks the work.
package tasks
