package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviebot/internal/collection"
	"github.com/desertthunder/moviebot/internal/notify"
	"github.com/desertthunder/moviebot/internal/repositories"
	"github.com/desertthunder/moviebot/internal/services"
	"github.com/desertthunder/moviebot/internal/session"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/storage"
	"github.com/desertthunder/moviebot/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage and the metadata client are built lazily on first use so commands such as
// `setup config` never touch the database.
type Runner struct {
	configPath string
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	backend   storage.Backend
	catalog   services.Catalog
	delayer   session.Delayer
	notifier  notify.Notifier
	navigator notify.Navigator
	closers   []io.Closer

	now           func() time.Time
	openURL       func(url string) error
	newFileLogger func(path string) (*log.Logger, io.Closer, error)

	api        *services.APIService
	store      *storage.Store
	sessions   *session.Manager
	collection *collection.Collection
	engine     *tasks.Engine
	dispatcher *tasks.Dispatcher
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer

	// Backend replaces the configured storage driver.
	Backend storage.Backend
	// Catalog replaces the proxy-backed metadata client.
	Catalog services.Catalog
	Delayer session.Delayer
	Now     func() time.Time
	OpenURL func(url string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	term := notify.NewWriterNotifier(opts.Output)

	return &Runner{
		configPath: opts.ConfigPath,
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		backend:    opts.Backend,
		catalog:    opts.Catalog,
		delayer:    opts.Delayer,
		notifier:   notify.Multi{term, notify.NewLogNotifier(opts.Logger)},
		navigator:  term,

		now:           opts.Now,
		openURL:       opts.OpenURL,
		newFileLogger: shared.NewFileLogger,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, watchlistCommand, ratingsCommand, moviesCommand,
		exportCommand, apiCommand, proxyCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before resolves configuration for every command.
//
// A config injected through [RunnerOpts] wins over the --config flag.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" && r.configPath == "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := shared.ResolveConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// After releases storage opened during the command.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close releases every resource opened by the runner, newest first.
func (r *Runner) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

func (r *Runner) cfg() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// SetLogger replaces the logger, e.g. when the TUI redirects logs to a file.
//
// Must be called before the first command touches storage.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// metadata returns the catalog, building the proxy client from config when none was injected.
func (r *Runner) metadata() services.Catalog {
	if r.catalog != nil {
		return r.catalog
	}
	r.catalog = services.NewTMDBService(r.apiService())
	return r.catalog
}

func (r *Runner) apiService() *services.APIService {
	if r.api != nil {
		return r.api
	}

	config := r.cfg()
	client := r.httpClient
	if client == http.DefaultClient && config.API.Timeout.Duration > 0 {
		client = &http.Client{Timeout: config.API.Timeout.Duration}
	}
	r.api = services.NewAPIService(config.API.ProxyURL, client).WithRateLimit(config.API.RateLimit)
	return r.api
}

// core builds the session manager, collection, engine and dispatcher over the configured storage.
func (r *Runner) core(ctx context.Context) error {
	if r.dispatcher != nil {
		return nil
	}

	config := r.cfg()
	if r.backend == nil {
		opened, err := repositories.Open(ctx, config.Storage)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
		}
		r.backend = opened.Backend
		r.closers = append(r.closers, opened)
		r.logger.Debug("storage opened", "driver", config.Storage.Driver)
	}

	r.store = storage.New(r.backend, r.logger)
	r.sessions = session.NewManager(session.Options{
		Store:     r.store,
		Notifier:  r.notifier,
		Navigator: r.navigator,
		Delayer:   r.delayer,
		Latency:   config.Auth.Latency.Duration,
		Logger:    r.logger,
	})
	r.collection = collection.New(collection.Options{
		Store:     r.store,
		Sessions:  r.sessions,
		Notifier:  r.notifier,
		Navigator: r.navigator,
		Logger:    r.logger,
	})
	r.engine = tasks.NewEngine(r.metadata(), r.collection, r.logger)
	r.dispatcher = tasks.NewDispatcher(r.sessions, r.collection, r.logger)
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
