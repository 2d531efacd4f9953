// Package session owns the locally persisted "currently logged in user".
//
// [Manager] creates a [models.Session] through email login, registration, or a social provider,
// destroys it on logout, and exposes it through [Manager.Current]. Nothing else reads or writes
// the session key.
//
// # Deferred completion
//
// Login and registration model a network round-trip: after synchronous validation they return an
// [Attempt] that completes once the configured latency elapses on a [Delayer]. Tests inject a
// delayer that returns immediately. While an attempt is pending a second one fails fast with
// [shared.ErrAuthInProgress].
//
// # Outcomes
//
// Every operation reports its outcome through a [notify.Notifier] and, on success or logout,
// requests navigation to [models.LocationHome] through a [notify.Navigator].
package session
