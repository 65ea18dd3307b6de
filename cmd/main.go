package main

import (
	"context"
	"os"

	"github.com/desertthunder/solify/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "solify",
		Usage:    "Resolve Spotify playlists and recommendations into Web API track objects",
		Version:  shared.Version,
		Flags:    []cli.Flag{configFlag()},
		Before:   runner.Setup,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
