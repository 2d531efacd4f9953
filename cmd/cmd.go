// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the default config.toml to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the SQLite database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in, register and manage the current session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with an email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "remember",
						Usage: "Remember this device",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Usage: "First name", Required: true},
					&cli.StringFlag{Name: "last-name", Usage: "Last name", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password", Required: true},
					&cli.StringFlag{Name: "confirm-password", Usage: "Password again", Required: true},
					&cli.StringSliceFlag{Name: "genre", Usage: "Favorite genre (repeatable)"},
					&cli.BoolFlag{Name: "accept-terms", Usage: "Accept the terms and conditions"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "social",
				Usage: "Log in with a social provider (google or facebook)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "provider"},
				},
				Action: r.AuthSocial,
			},
			{
				Name:   "logout",
				Usage:  "End the current session and clear the watchlist",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the current session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// watchlistCommand handles watchlist operations
func watchlistCommand(r *Runner) *cli.Command {
	idArg := func() []cli.Argument {
		return []cli.Argument{&cli.StringArg{Name: "id"}}
	}

	return &cli.Command{
		Name:    "watchlist",
		Aliases: []string{"wl"},
		Usage:   "Manage the watchlist",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List watchlist movie ids",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "details",
						Usage: "Fetch titles from the metadata proxy",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.WatchlistList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to the watchlist",
				Arguments: idArg(),
				Action:    r.WatchlistAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from the watchlist",
				Arguments: idArg(),
				Action:    r.WatchlistRemove,
			},
			{
				Name:      "toggle",
				Usage:     "Add the movie if absent, remove it otherwise",
				Arguments: idArg(),
				Action:    r.WatchlistToggle,
			},
		},
	}
}

// ratingsCommand handles movie ratings
func ratingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ratings",
		Usage: "Rate movies from 1 to 5 stars",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every rating",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RatingsList,
			},
			{
				Name:  "get",
				Usage: "Show the rating for a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.RatingsGet,
			},
			{
				Name:  "set",
				Usage: "Rate a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.RatingsSet,
			},
		},
	}
}

func browseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "genre",
			Usage: "Only movies whose genre name contains this text",
		},
		&cli.StringFlag{
			Name:  "year",
			Usage: "Only movies whose release year contains this text",
		},
		&cli.FloatFlag{
			Name:  "min-rating",
			Usage: "Minimum TMDB rating",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "Fuzzy match against titles",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of movies to show (0 for all)",
			Value: 20,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}

// moviesCommand handles browsing the metadata proxy
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "movies",
		Usage: "Browse trending movies, search and show details",
		Commands: []*cli.Command{
			{
				Name:   "trending",
				Usage:  "List this week's trending movies",
				Flags:  browseFlags(),
				Action: r.MoviesTrending,
			},
			{
				Name:  "search",
				Usage: "Search movies and shows",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  browseFlags(),
				Action: r.MoviesSearch,
			},
			{
				Name:  "show",
				Usage: "Show details for a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesShow,
			},
			{
				Name:  "open",
				Usage: "Open the movie's TMDB page in a browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.MoviesOpen,
			},
		},
	}
}

// exportCommand handles collection exports
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the collection",
		Commands: []*cli.Command{
			{
				Name:  "watchlist",
				Usage: "Export the watchlist with movie details and ratings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: csv, markdown, txt or json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: moviebot_watchlist.<ext>)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent detail requests",
					},
					&cli.FloatFlag{
						Name:  "rate-limit",
						Usage: "Detail requests per second",
					},
				},
				Action: r.ExportWatchlist,
			},
		},
	}
}

// apiCommand handles direct (proxy) API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the metadata proxy",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the proxy, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:   "health",
				Usage:  "Check the proxy (calls /health)",
				Action: r.APIHealth,
			},
		},
	}
}

// proxyCommand runs the same-origin TMDB proxy
func proxyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "proxy",
		Usage: "Run the TMDB metadata proxy",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve /api/tmdb/*, /health and /metrics",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "Interface to listen on (default from config)",
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "Port to listen on (default from config)",
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Response cache: sqlite, redis or none (default follows storage.driver)",
					},
				},
				Action: r.ProxyServe,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "search",
				Usage: "Start with search results instead of trending",
			},
		},
		Action: r.TUI,
	}
}
