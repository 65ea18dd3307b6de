package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/solify/internal/formatter"
	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/server"
	"github.com/desertthunder/solify/internal/services"
	"github.com/desertthunder/solify/internal/shared"
	"github.com/desertthunder/solify/internal/tasks"
	"github.com/desertthunder/solify/internal/transform"
	"github.com/desertthunder/solify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TokenCache is the subset of [services.TokenCache] the CLI uses.
type TokenCache interface {
	Token(ctx context.Context) (models.Token, error)
	Cached() (models.Token, bool)
	Invalidate()
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	resolver   server.Resolver
	tokens     TokenCache
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	now        func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Resolver and Tokens are built from Config on first use when nil.
type RunnerOpts struct {
	Config     *shared.Config
	Resolver   server.Resolver
	Tokens     TokenCache
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Now        func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
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

	return &Runner{
		config:     opts.Config,
		resolver:   opts.Resolver,
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		now:        opts.Now,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, playlistCommand, recommendationsCommand, tokenCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Setup loads the config file named by --config when it exists, applies
// environment overrides and sets the log level.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	if err := r.config.ApplyEnv(os.Getenv); err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))
	return ctx, nil
}

// wire builds the upstream clients and resolver unless they were injected.
func (r *Runner) wire() error {
	if r.resolver != nil && r.tokens != nil {
		return nil
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	up := r.config.Upstream
	tokens := services.NewTokenCache(services.NewTokenEndpoint(up.TokenEndpoint, r.httpClient), r.now)
	if r.tokens == nil {
		r.tokens = tokens
	}
	if r.resolver == nil {
		r.resolver = tasks.NewResolver(
			tokens,
			services.NewClientCredentialsProvider(up.ClientTokenURL, r.httpClient),
			services.NewPartnerService(up.PartnerURL, r.httpClient),
			services.NewWebAPIService(up.WebAPIURL, r.httpClient),
			r.logger,
		)
	}
	return nil
}

// Serve starts the HTTP API and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, r.resolver, r.logger).Run(ctx)
}

// Playlist resolves a playlist and writes it in the requested format.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	id, err := argumentID(cmd.StringArg("playlist"), models.TypePlaylist)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.wire(); err != nil {
		return err
	}

	ctx, done := r.reportProgress(ctx)
	defer done()

	var data *models.PlaylistTracks
	if cmd.Bool("full") {
		data, err = r.resolver.FetchPlaylistFull(ctx, id, credentials(cmd), cmd.Int("limit"))
	} else {
		data, err = r.resolver.FetchPlaylist(ctx, id)
	}
	if err != nil {
		return err
	}

	return r.emit(cmd, format, formatter.Listing{
		Title:  fmt.Sprintf("Playlist %s", id),
		Value:  data,
		Tracks: data.Tracks,
	})
}

// Recommendations resolves recommendations for a seed track.
func (r *Runner) Recommendations(ctx context.Context, cmd *cli.Command) error {
	id, err := argumentID(cmd.StringArg("track"), models.TypeTrack)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.wire(); err != nil {
		return err
	}

	ctx, done := r.reportProgress(ctx)
	defer done()

	var data *models.Recommendations
	if cmd.Bool("full") {
		data, err = r.resolver.FetchRecommendationsFull(ctx, id, cmd.Int("limit"), credentials(cmd))
	} else {
		data, err = r.resolver.FetchRecommendations(ctx, id, cmd.Int("limit"))
	}
	if err != nil {
		return err
	}

	return r.emit(cmd, format, formatter.Listing{
		Title:  fmt.Sprintf("Recommendations for %s", id),
		Value:  data,
		Tracks: data.Tracks,
	})
}

// Token fetches the anonymous token and prints when it expires. The token
// itself is never printed.
func (r *Runner) Token(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}
	if cmd.Bool("refresh") {
		r.tokens.Invalidate()
	}

	tok, err := r.tokens.Token(ctx)
	if err != nil {
		return err
	}

	remaining := tok.ExpiresAt.Sub(r.now()).Round(time.Second)
	r.writePlainHeader("Anonymous token")
	r.writePlain("%s %s (in %s)\n", ui.Styles.Help("expires:"), tok.ExpiresAt.UTC().Format(time.RFC3339), remaining)
	if !tok.ValidAt(r.now(), services.TokenSafetyMargin) {
		r.writePlain("%s\n", ui.Styles.Warn("token is within the refresh margin"))
	}
	return nil
}

// ConfigInit writes the example configuration to --path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.writePlain("%s %s\n", ui.Styles.OK("config written:"), path)
	return nil
}

// ConfigShow prints the effective configuration as TOML.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if err := toml.NewEncoder(r.output).Encode(r.config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// reportProgress logs resolver stage transitions at info level until done is called.
func (r *Runner) reportProgress(ctx context.Context) (context.Context, func()) {
	progress := make(chan tasks.ProgressUpdate, 16)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for u := range progress {
			r.logger.Info(u.Message)
		}
	}()

	return tasks.WithProgress(ctx, progress), func() {
		close(progress)
		<-finished
	}
}

func (r *Runner) emit(cmd *cli.Command, format formatter.Format, listing formatter.Listing) error {
	pretty := cmd.Bool("pretty")
	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, listing, format, pretty); err != nil {
			return err
		}
		r.logger.Info("output written", "path", path, "format", format, "tracks", len(listing.Tracks))
		return nil
	}

	if format == formatter.FormatText {
		r.writePlainHeader(listing.Title)
		listing.Title = ""
	}
	return formatter.Write(r.output, listing, format, pretty)
}

func argumentID(raw, kind string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: %s id, URI or URL", shared.ErrMissingArgument, kind)
	}
	id := transform.ExtractID(raw, kind)
	if !transform.ValidID(id) {
		return "", fmt.Errorf("%w: unable to parse %s id from %q", shared.ErrInvalidInput, kind, raw)
	}
	return id, nil
}

func credentials(cmd *cli.Command) models.Credentials {
	return models.Credentials{
		ClientID:     cmd.String("client-id"),
		ClientSecret: cmd.String("client-secret"),
	}
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("%s\n", ui.Styles.Header(title))
}
