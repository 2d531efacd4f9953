// Package notify holds the ports the core reports outcomes through.
//
// A [Notifier] receives fire-and-forget messages tagged with a [models.NoticeKind]; a [Navigator]
// receives the location the host should move to after a login, a logout, or a rejected mutation.
// Neither returns an error and neither may block the caller.
//
// Implementations here cover the CLI (styled writer), logs, the TUI (channel feed) and fan-out.
package notify
