// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes config, data directory and database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config file, data directory and database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles service authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with streaming services",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SpotifyAuth,
			},
		},
	}
}

// youtubeCommand handles YouTube playlist operations
func youtubeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "youtube",
		Aliases: []string{"yt"},
		Usage:   "YouTube playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch a playlist and show parsed artist/song fields",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to fetch",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Write the fetched songs report CSV",
					},
				},
				Action: r.YouTubeFetch,
			},
		},
	}
}

// spotifyCommand handles Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search Spotify tracks and show match scores",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifySearch,
			},
			{
				Name:  "playlists",
				Usage: "List your Spotify playlists",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyPlaylists,
			},
		},
	}
}

// migrateCommand handles playlist migration
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate a YouTube playlist to Spotify",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a full migration",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "YouTube playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dest",
						Aliases:  []string{"d"},
						Usage:    "Spotify playlist name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "threshold",
						Usage: "Minimum match score (0-100)",
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make a created playlist public",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Bypass the match cache",
					},
				},
				Action: r.MigrateRun,
			},
			{
				Name:   "ui",
				Usage:  "Run a migration through the interactive wizard",
				Flags:  []cli.Flag{configFlag()},
				Action: r.MigrateUI,
			},
			{
				Name:  "history",
				Usage: "Show previous migration runs",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 10,
					},
				},
				Action: r.MigrateHistory,
			},
		},
	}
}

// cacheCommand inspects and clears the match cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local track match cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache hit counts",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cached matches",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}
