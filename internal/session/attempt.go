package session

import (
	"context"
	"time"

	"github.com/desertthunder/moviebot/internal/models"
)

// Delayer waits for d or until ctx is done.
type Delayer interface {
	Delay(ctx context.Context, d time.Duration) error
}

// TimerDelayer waits on a real timer.
type TimerDelayer struct{}

func (TimerDelayer) Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Attempt is the pending result of a login or registration.
type Attempt struct {
	done    chan struct{}
	session *models.Session
	err     error
}

func newAttempt() *Attempt {
	return &Attempt{done: make(chan struct{})}
}

// failedAttempt returns an already completed attempt carrying err.
func failedAttempt(err error) *Attempt {
	a := newAttempt()
	a.complete(nil, err)
	return a
}

func (a *Attempt) complete(s *models.Session, err error) {
	a.session, a.err = s, err
	close(a.done)
}

// Done is closed once the attempt has completed.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Pending reports whether the attempt is still waiting.
func (a *Attempt) Pending() bool {
	select {
	case <-a.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the attempt completes or ctx is done.
func (a *Attempt) Wait(ctx context.Context) (*models.Session, error) {
	select {
	case <-a.done:
		return a.session, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome of a completed attempt, or (nil, nil) while pending.
func (a *Attempt) Result() (*models.Session, error) {
	if a.Pending() {
		return nil, nil
	}
	return a.session, a.err
}
