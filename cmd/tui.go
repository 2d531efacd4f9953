package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviebot/internal/notify"
	"github.com/desertthunder/moviebot/internal/tasks"
	"github.com/desertthunder/moviebot/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/moviebot-tui.log"

// TUI launches the interactive movie browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	config := r.cfg()

	path := config.Log.File
	if path == "" {
		path = tuiLogPath
	}

	// Log lines would otherwise interleave with rendering.
	fileLogger, closer, err := r.newFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.closers = append(r.closers, closer)
	r.SetLogger(fileLogger)

	feed := notify.NewFeed(32)
	r.notifier = notify.Multi{feed, notify.NewLogNotifier(fileLogger)}
	r.navigator = feed

	if err := r.core(ctx); err != nil {
		return err
	}

	err = ui.Run(ctx, ui.Options{
		Engine:        r.engine,
		Dispatcher:    r.dispatcher,
		Sessions:      r.sessions,
		Feed:          feed,
		RedirectDelay: config.Auth.RedirectDelay.Duration,
		Query:         tasks.BrowseQuery{Query: cmd.String("search")},
		OpenURL:       r.openURL,
	})
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
