package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/notify"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/storage"
)

// DefaultLatency is the simulated round-trip for login and registration.
const DefaultLatency = 1500 * time.Millisecond

// Notice messages.
const (
	MsgLoginSuccess    = "Login successful! Welcome back."
	MsgRegisterSuccess = "Account created successfully! Welcome to MovieBot."
	MsgLoggedOut       = "You have been logged out"
)

// RegisterFields is the registration form.
type RegisterFields struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Genres          []string
	TermsAccepted   bool
}

// Options configures a [Manager]. Only Store is required.
type Options struct {
	Store     *storage.Store
	Notifier  notify.Notifier
	Navigator notify.Navigator
	Delayer   Delayer
	Latency   time.Duration
	Logger    *log.Logger
	Now       func() time.Time
	NewID     func() string
}

// Manager creates, reads and destroys the persisted [models.Session].
type Manager struct {
	store     *storage.Store
	notifier  notify.Notifier
	navigator notify.Navigator
	delayer   Delayer
	latency   time.Duration
	logger    *log.Logger
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	inFlight bool
}

// NewManager creates a Manager. Unset options fall back to discarding ports, a real timer,
// the wall clock and [shared.GenerateID]. A negative Latency selects [DefaultLatency].
func NewManager(opts Options) *Manager {
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Navigator == nil {
		opts.Navigator = notify.Discard{}
	}
	if opts.Delayer == nil {
		opts.Delayer = TimerDelayer{}
	}
	if opts.Latency < 0 {
		opts.Latency = DefaultLatency
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = shared.GenerateID
	}

	return &Manager{
		store:     opts.Store,
		notifier:  opts.Notifier,
		navigator: opts.Navigator,
		delayer:   opts.Delayer,
		latency:   opts.Latency,
		logger:    opts.Logger.With("component", "session"),
		now:       opts.Now,
		newID:     opts.NewID,
	}
}

// Current returns the persisted session, or nil when nobody is logged in.
func (m *Manager) Current(ctx context.Context) *models.Session {
	s := storage.Get[*models.Session](ctx, m.store, models.KeyUser, nil)
	if err := s.Validate(); err != nil {
		return nil
	}
	return s
}

// IsAuthenticated reports whether a session exists.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.Current(ctx) != nil
}

// Remembered reports whether the last login asked to be remembered.
func (m *Manager) Remembered(ctx context.Context) bool {
	return storage.Get(ctx, m.store, models.KeyRemember, false)
}

// Login validates the credentials and returns an attempt that completes after the simulated latency.
//
// Any non-empty password is accepted. The session name is the local part of email.
func (m *Manager) Login(ctx context.Context, email, password string, remember bool) *Attempt {
	email = strings.TrimSpace(email)

	var err error
	switch {
	case email == "" || password == "":
		err = fmt.Errorf("%w: email and password are required", shared.ErrValidation)
	case !shared.ValidEmail(email):
		err = fmt.Errorf("%w: %q is not a valid email address", shared.ErrValidation, email)
	}
	if err != nil {
		return m.reject(err)
	}

	return m.begin(ctx, func() (*models.Session, error) {
		s := m.newSession(email, shared.EmailLocalPart(email), models.ProviderLocal)
		if err := m.persist(ctx, s); err != nil {
			return nil, err
		}

		// The flag is only ever set; an earlier "remember" survives a later plain login.
		if remember {
			if err := m.store.Set(ctx, models.KeyRemember, true); err != nil {
				m.logger.Warn("failed to persist remember flag", "error", err)
			}
		}

		m.succeed(MsgLoginSuccess)
		return s, nil
	})
}

// Register validates fields and returns an attempt that completes after the simulated latency.
//
// Checks run in order and the first failure wins: terms, password confirmation, password length,
// then names and email shape.
func (m *Manager) Register(ctx context.Context, f RegisterFields) *Attempt {
	if err := validateRegistration(f); err != nil {
		return m.reject(err)
	}

	first, last := strings.TrimSpace(f.FirstName), strings.TrimSpace(f.LastName)
	email := strings.TrimSpace(f.Email)
	genres := append([]string{}, f.Genres...)

	return m.begin(ctx, func() (*models.Session, error) {
		s := m.newSession(email, first+" "+last, models.ProviderLocal)
		s.FirstName, s.LastName = first, last
		s.Preferences.FavoriteGenres = genres

		if err := m.persist(ctx, s); err != nil {
			return nil, err
		}

		m.succeed(MsgRegisterSuccess)
		return s, nil
	})
}

func validateRegistration(f RegisterFields) error {
	switch {
	case !f.TermsAccepted:
		return shared.ErrTermsNotAccepted
	case f.Password != f.ConfirmPassword:
		return shared.ErrPasswordMismatch
	case len([]rune(f.Password)) < shared.MinPasswordLength:
		return fmt.Errorf("%w: need at least %d characters", shared.ErrPasswordTooWeak, shared.MinPasswordLength)
	case strings.TrimSpace(f.FirstName) == "" || strings.TrimSpace(f.LastName) == "":
		return fmt.Errorf("%w: first and last name are required", shared.ErrValidation)
	case !shared.ValidEmail(strings.TrimSpace(f.Email)):
		return fmt.Errorf("%w: %q is not a valid email address", shared.ErrValidation, f.Email)
	}
	return nil
}

// LoginWithProvider creates a session for a social provider without any credential exchange.
//
// The session uses "<provider>_user@example.com" and the name "<Provider> User".
func (m *Manager) LoginWithProvider(ctx context.Context, provider string) (*models.Session, error) {
	p, ok := models.ParseProvider(provider)
	if !ok || p == models.ProviderLocal {
		err := fmt.Errorf("%w: %w: %q", shared.ErrValidation, shared.ErrUnsupportedProvider, provider)
		m.notifier.Notify(shared.UserMessage(err), models.NoticeError)
		return nil, err
	}

	if !m.acquire() {
		return nil, shared.ErrAuthInProgress
	}
	defer m.release()

	s := m.newSession(fmt.Sprintf("%s_user@example.com", p), p.Display()+" User", p)
	if err := m.persist(ctx, s); err != nil {
		return nil, err
	}

	m.succeed(fmt.Sprintf("%s login successful!", p.Display()))
	return s, nil
}

// Logout removes the session and the watchlist. Ratings are kept.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.RemoveAll(ctx, models.KeyUser, models.KeyWatchlist); err != nil {
		m.notifier.Notify("Logout failed, please try again", models.NoticeError)
		return fmt.Errorf("logout: %w", err)
	}

	m.logger.Info("logged out")
	m.notifier.Notify(MsgLoggedOut, models.NoticeInfo)
	m.navigator.Navigate(models.LocationHome)
	return nil
}

// reject reports a validation failure and returns a completed attempt.
func (m *Manager) reject(err error) *Attempt {
	m.logger.Debug("auth rejected", "error", err)
	m.notifier.Notify(shared.UserMessage(err), models.NoticeError)
	return failedAttempt(err)
}

// begin runs finish after the latency unless another attempt is pending.
func (m *Manager) begin(ctx context.Context, finish func() (*models.Session, error)) *Attempt {
	if !m.acquire() {
		m.logger.Debug("auth attempt ignored, another is pending")
		return failedAttempt(shared.ErrAuthInProgress)
	}

	a := newAttempt()
	go func() {
		var (
			s   *models.Session
			err error
		)
		if err = m.delayer.Delay(ctx, m.latency); err != nil {
			err = fmt.Errorf("auth attempt cancelled: %w", err)
		} else if s, err = finish(); err != nil {
			m.notifier.Notify("Something went wrong, please try again", models.NoticeError)
		}

		// inFlight must be clear by the time Wait returns.
		m.release()
		a.complete(s, err)
	}()
	return a
}

func (m *Manager) acquire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return false
	}
	m.inFlight = true
	return true
}

func (m *Manager) release() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

// Pending reports whether a login or registration is waiting to complete.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

func (m *Manager) newSession(email, name string, p models.Provider) *models.Session {
	return &models.Session{
		ID:          m.newID(),
		Email:       email,
		Name:        name,
		Provider:    p,
		CreatedAt:   m.now().UTC(),
		Preferences: models.Preferences{FavoriteGenres: []string{}},
	}
}

func (m *Manager) persist(ctx context.Context, s *models.Session) error {
	if err := m.store.Set(ctx, models.KeyUser, s); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	m.logger.Info("session created", "id", s.ID, "provider", s.Provider)
	return nil
}

func (m *Manager) succeed(message string) {
	m.notifier.Notify(message, models.NoticeSuccess)
	m.navigator.Navigate(models.LocationHome)
}
