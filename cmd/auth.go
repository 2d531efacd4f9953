package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moviebot/internal/session"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AuthLogin logs in with an email and password.
//
// The notice and next-step hint are printed by the notifier; the returned error only sets the exit status.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.core(ctx); err != nil {
		return err
	}

	out := r.dispatcher.Dispatch(ctx, tasks.Intent{
		Kind:     tasks.IntentLogin,
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
		Remember: cmd.Bool("remember"),
	})
	if out.Err != nil {
		return out.Err
	}

	r.writePlain("Logged in as %s <%s>\n", out.Session.Name, out.Session.Email)
	return nil
}

// AuthRegister creates an account. Password strength is shown before the attempt.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.core(ctx); err != nil {
		return err
	}

	fields := session.RegisterFields{
		FirstName:       cmd.String("first-name"),
		LastName:        cmd.String("last-name"),
		Email:           cmd.String("email"),
		Password:        cmd.String("password"),
		ConfirmPassword: cmd.String("confirm-password"),
		Genres:          cmd.StringSlice("genre"),
		TermsAccepted:   cmd.Bool("accept-terms"),
	}

	strength := shared.MeasurePassword(fields.Password)
	r.writePlain("Password strength: %s (%d/100)\n", strength.Level, strength.Score)
	if len(strength.Feedback) > 0 {
		r.writePlain("  missing: %s\n", strings.Join(strength.Feedback, ", "))
	}

	out := r.dispatcher.Dispatch(ctx, tasks.Intent{Kind: tasks.IntentRegister, Register: fields})
	if out.Err != nil {
		return out.Err
	}

	r.writePlain("Welcome, %s\n", out.Session.Name)
	return nil
}

// AuthSocial logs in through a social provider.
func (r *Runner) AuthSocial(ctx context.Context, cmd *cli.Command) error {
	provider := cmd.StringArg("provider")
	if provider == "" {
		return fmt.Errorf("%w: provider (google or facebook)", shared.ErrMissingArgument)
	}

	if err := r.core(ctx); err != nil {
		return err
	}

	out := r.dispatcher.Dispatch(ctx, tasks.Intent{Kind: tasks.IntentSocialLogin, Provider: provider})
	if out.Err != nil {
		return out.Err
	}

	r.writePlain("Logged in as %s <%s>\n", out.Session.Name, out.Session.Email)
	return nil
}

// AuthLogout ends the current session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.core(ctx); err != nil {
		return err
	}
	return r.dispatcher.Dispatch(ctx, tasks.Intent{Kind: tasks.IntentLogout}).Err
}

// AuthStatus prints the persisted session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.core(ctx); err != nil {
		return err
	}

	current := r.sessions.Current(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"authenticated": current != nil,
			"remember":      r.sessions.Remembered(ctx),
			"user":          current,
		}, true)
	}

	if current == nil {
		r.writePlain("✗ Not logged in\n")
		return r.writePlain("Run 'moviebot auth login --email <email>' to sign in\n")
	}

	r.writePlain("✓ Logged in\n")
	r.writePlain("Name:     %s\n", current.Name)
	r.writePlain("Email:    %s\n", current.Email)
	r.writePlain("Provider: %s\n", current.Provider.Display())
	r.writePlain("Since:    %s\n", current.CreatedAt.Local().Format("2006-01-02 15:04"))
	if genres := current.Preferences.FavoriteGenres; len(genres) > 0 {
		r.writePlain("Genres:   %s\n", strings.Join(genres, ", "))
	}
	if r.sessions.Remembered(ctx) {
		r.writePlain("Remembered on this device\n")
	}
	return nil
}
