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

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: json, txt or csv",
			Value:   "json",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to a file instead of stdout",
		},
	}
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "full",
			Usage: "Enrich tracks with Web API records (requires client credentials)",
		},
		&cli.StringFlag{
			Name:    "client-id",
			Usage:   "Spotify client id for --full",
			Sources: cli.EnvVars("SPOTIFY_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:    "client-secret",
			Usage:   "Spotify client secret for --full",
			Sources: cli.EnvVars("SPOTIFY_CLIENT_SECRET"),
		},
	}
}

// serveCommand starts the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the resolver HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// playlistCommand resolves a playlist
func playlistCommand(r *Runner) *cli.Command {
	flags := append(credentialFlags(), &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"l"},
		Usage:   "Maximum tracks to enrich with --full (0 for all)",
	})
	return &cli.Command{
		Name:      "playlist",
		Aliases:   []string{"pl"},
		Usage:     "Resolve a playlist id, URI or URL into tracks",
		ArgsUsage: "<id|uri|url>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "playlist"},
		},
		Flags:  append(flags, outputFlags()...),
		Action: r.Playlist,
	}
}

// recommendationsCommand resolves recommendations for a seed track
func recommendationsCommand(r *Runner) *cli.Command {
	flags := append(credentialFlags(), &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"l"},
		Usage:   "Number of recommendations",
		Value:   5,
	})
	return &cli.Command{
		Name:      "recommendations",
		Aliases:   []string{"recs"},
		Usage:     "Resolve recommendations for a track id, URI or URL",
		ArgsUsage: "<id|uri|url>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "track"},
		},
		Flags:  append(flags, outputFlags()...),
		Action: r.Recommendations,
	}
}

// tokenCommand inspects the anonymous token
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Fetch the anonymous token and print its expiry",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Discard any cached token first",
			},
		},
		Action: r.Token,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file helpers",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the example configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Destination path",
						Value: "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration",
				Action: r.ConfigShow,
			},
		},
	}
}
