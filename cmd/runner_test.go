package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	testPlaylistID = "37i9dQZF1DXcBWIGoYBM5M"
	testTrackID    = "4uLU6hMCjMI75M1A2tKUQC"
)

type stubResolver struct {
	lastOp    string
	lastID    string
	lastLimit int
	lastCreds models.Credentials
	err       error
}

func sampleTracks() []models.Track {
	return []models.Track{
		{ID: "t1", Name: "One", Artists: []models.Artist{{Name: "Artist"}}, DurationMS: 215000},
		{ID: "t2", Name: "Two", Artists: []models.Artist{{Name: "Other"}}, DurationMS: 61000, Explicit: true},
	}
}

func (s *stubResolver) FetchPlaylist(_ context.Context, id string) (*models.PlaylistTracks, error) {
	s.lastOp, s.lastID = "playlist", id
	if s.err != nil {
		return nil, s.err
	}
	return &models.PlaylistTracks{Tracks: sampleTracks(), Total: 2}, nil
}

func (s *stubResolver) FetchPlaylistFull(_ context.Context, id string, creds models.Credentials, limit int) (*models.PlaylistTracks, error) {
	s.lastOp, s.lastID, s.lastCreds, s.lastLimit = "playlist_full", id, creds, limit
	if s.err != nil {
		return nil, s.err
	}
	return &models.PlaylistTracks{Tracks: sampleTracks(), Total: 2}, nil
}

func (s *stubResolver) FetchRecommendations(_ context.Context, id string, limit int) (*models.Recommendations, error) {
	s.lastOp, s.lastID, s.lastLimit = "recommendations", id, limit
	if s.err != nil {
		return nil, s.err
	}
	return &models.Recommendations{Seeds: []models.Seed{models.NewSeed(id, 2)}, Tracks: sampleTracks()}, nil
}

func (s *stubResolver) FetchRecommendationsFull(_ context.Context, id string, limit int, creds models.Credentials) (*models.Recommendations, error) {
	s.lastOp, s.lastID, s.lastCreds, s.lastLimit = "recommendations_full", id, creds, limit
	if s.err != nil {
		return nil, s.err
	}
	return &models.Recommendations{Seeds: []models.Seed{models.NewSeed(id, 2)}, Tracks: sampleTracks()}, nil
}

type stubTokens struct {
	token       models.Token
	err         error
	invalidated bool
}

func (s *stubTokens) Token(context.Context) (models.Token, error) { return s.token, s.err }
func (s *stubTokens) Cached() (models.Token, bool)                { return s.token, s.token.AccessToken != "" }
func (s *stubTokens) Invalidate()                                 { s.invalidated = true }

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestRunner() (*Runner, *stubResolver, *stubTokens, *bytes.Buffer) {
	resolver := &stubResolver{}
	tokens := &stubTokens{token: models.Token{AccessToken: "secret-token", ExpiresAt: fixedNow.Add(time.Hour)}}
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Resolver: resolver,
		Tokens:   tokens,
		Output:   output,
		Logger:   log.New(io.Discard),
		Now:      func() time.Time { return fixedNow },
	})
	return runner, resolver, tokens, output
}

func run(t *testing.T, cmd *cli.Command, args ...string) error {
	t.Helper()
	return cmd.Run(context.Background(), append([]string{cmd.Name}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			resolver := &stubResolver{}
			tokens := &stubTokens{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Resolver:   resolver,
				Tokens:     tokens,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.resolver != resolver || runner.tokens != tokens {
				t.Error("expected injected resolver and tokens")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil || runner.logger == nil || runner.now == nil {
				t.Error("expected defaults to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected default output to be os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected default httpClient to be http.DefaultClient")
			}
		})

		t.Run("register lists every command", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			names := []string{}
			for _, c := range runner.register() {
				names = append(names, c.Name)
			}
			if strings.Join(names, ",") != "serve,playlist,recommendations,token,config" {
				t.Errorf("unexpected commands %v", names)
			}
		})
	})

	t.Run("wire", func(t *testing.T) {
		t.Run("builds services from config", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: log.New(io.Discard)})
			if err := runner.wire(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.resolver == nil || runner.tokens == nil {
				t.Error("expected resolver and tokens to be built")
			}
		})

		t.Run("rejects invalid config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Upstream.TokenEndpoint = ""
			runner := NewRunner(RunnerOpts{Config: config, Logger: log.New(io.Discard)})

			if err := runner.wire(); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("Playlist", func(t *testing.T) {
		t.Run("writes JSON", func(t *testing.T) {
			runner, resolver, _, output := newTestRunner()
			if err := run(t, playlistCommand(runner), "https://open.spotify.com/playlist/"+testPlaylistID); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if resolver.lastOp != "playlist" || resolver.lastID != testPlaylistID {
				t.Errorf("unexpected resolver call %s %s", resolver.lastOp, resolver.lastID)
			}
			var decoded models.PlaylistTracks
			if err := json.Unmarshal(output.Bytes(), &decoded); err != nil {
				t.Fatalf("expected JSON output, got %q", output.String())
			}
			if decoded.Total != 2 {
				t.Errorf("expected total 2, got %d", decoded.Total)
			}
		})

		t.Run("writes text with header", func(t *testing.T) {
			runner, _, _, output := newTestRunner()
			if err := run(t, playlistCommand(runner), "--format", "txt", testPlaylistID); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			out := output.String()
			for _, want := range []string{"Playlist " + testPlaylistID, "1. Artist - One (3:35)", "2. Other - Two [E] (1:01)"} {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in output:\n%s", want, out)
				}
			}
		})

		t.Run("full passes credentials and limit", func(t *testing.T) {
			runner, resolver, _, _ := newTestRunner()
			err := run(t, playlistCommand(runner), "--full", "--client-id", "id", "--client-secret", "secret", "--limit", "10", testPlaylistID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resolver.lastOp != "playlist_full" || resolver.lastLimit != 10 {
				t.Errorf("unexpected call %s limit %d", resolver.lastOp, resolver.lastLimit)
			}
			if resolver.lastCreds != (models.Credentials{ClientID: "id", ClientSecret: "secret"}) {
				t.Errorf("unexpected credentials %+v", resolver.lastCreds)
			}
		})

		t.Run("writes csv to file", func(t *testing.T) {
			runner, _, _, output := newTestRunner()
			path := filepath.Join(t.TempDir(), "tracks.csv")
			if err := run(t, playlistCommand(runner), "--format", "csv", "--output", path, testPlaylistID); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.Len() != 0 {
				t.Errorf("expected nothing on stdout, got %q", output.String())
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("expected output file: %v", err)
			}
			if !strings.HasPrefix(string(data), "ID,Name") {
				t.Errorf("unexpected file content %q", data)
			}
		})

		t.Run("missing argument", func(t *testing.T) {
			runner, _, _, _ := newTestRunner()
			if err := run(t, playlistCommand(runner)); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("invalid id", func(t *testing.T) {
			runner, resolver, _, _ := newTestRunner()
			if err := run(t, playlistCommand(runner), "nope"); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if resolver.lastOp != "" {
				t.Error("expected resolver not to be called")
			}
		})

		t.Run("invalid format", func(t *testing.T) {
			runner, _, _, _ := newTestRunner()
			if err := run(t, playlistCommand(runner), "--format", "xml", testPlaylistID); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("resolver error", func(t *testing.T) {
			runner, resolver, _, _ := newTestRunner()
			resolver.err = &shared.UpstreamAPIError{StatusCode: 500}
			if err := run(t, playlistCommand(runner), testPlaylistID); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Recommendations", func(t *testing.T) {
		t.Run("default limit", func(t *testing.T) {
			runner, resolver, _, _ := newTestRunner()
			if err := run(t, recommendationsCommand(runner), "spotify:track:"+testTrackID); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resolver.lastOp != "recommendations" || resolver.lastID != testTrackID || resolver.lastLimit != 5 {
				t.Errorf("unexpected call %s %s %d", resolver.lastOp, resolver.lastID, resolver.lastLimit)
			}
		})

		t.Run("full", func(t *testing.T) {
			runner, resolver, _, output := newTestRunner()
			err := run(t, recommendationsCommand(runner), "--full", "--client-id", "id", "--client-secret", "secret", "--limit", "3", "--pretty", testTrackID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resolver.lastOp != "recommendations_full" || resolver.lastLimit != 3 {
				t.Errorf("unexpected call %s %d", resolver.lastOp, resolver.lastLimit)
			}
			if !strings.Contains(output.String(), "\n  \"seeds\"") {
				t.Errorf("expected pretty JSON, got %q", output.String())
			}
		})
	})

	t.Run("Token", func(t *testing.T) {
		t.Run("prints expiry but never the token", func(t *testing.T) {
			runner, _, tokens, output := newTestRunner()
			if err := run(t, tokenCommand(runner)); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			out := output.String()
			if strings.Contains(out, "secret-token") {
				t.Error("token must not be printed")
			}
			if !strings.Contains(out, "2024-01-01T13:00:00Z") || !strings.Contains(out, "1h0m0s") {
				t.Errorf("expected expiry in output, got %q", out)
			}
			if tokens.invalidated {
				t.Error("expected cache to be kept without --refresh")
			}
		})

		t.Run("refresh invalidates", func(t *testing.T) {
			runner, _, tokens, _ := newTestRunner()
			if err := run(t, tokenCommand(runner), "--refresh"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !tokens.invalidated {
				t.Error("expected cache to be invalidated")
			}
		})

		t.Run("warns inside margin", func(t *testing.T) {
			runner, _, tokens, output := newTestRunner()
			tokens.token.ExpiresAt = fixedNow.Add(time.Minute)
			run(t, tokenCommand(runner))
			if !strings.Contains(output.String(), "refresh margin") {
				t.Errorf("expected margin warning, got %q", output.String())
			}
		})

		t.Run("fetch error", func(t *testing.T) {
			runner, _, tokens, _ := newTestRunner()
			tokens.err = &shared.UpstreamAuthError{StatusCode: 503}
			if err := run(t, tokenCommand(runner)); !errors.Is(err, shared.ErrUpstreamAuth) {
				t.Errorf("expected ErrUpstreamAuth, got %v", err)
			}
		})
	})

	t.Run("Config", func(t *testing.T) {
		t.Run("init writes example once", func(t *testing.T) {
			runner, _, _, output := newTestRunner()
			path := filepath.Join(t.TempDir(), "config.toml")

			if err := run(t, configCommand(runner), "init", "--path", path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("expected config file: %v", err)
			}
			if !strings.Contains(output.String(), path) {
				t.Errorf("expected path in output, got %q", output.String())
			}
			if err := run(t, configCommand(runner), "init", "--path", path); err == nil {
				t.Error("expected error when config already exists")
			}
		})

		t.Run("show prints TOML", func(t *testing.T) {
			runner, _, _, output := newTestRunner()
			if err := run(t, configCommand(runner), "show"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			for _, want := range []string{"[upstream]", "[server]", "partner_url"} {
				if !strings.Contains(output.String(), want) {
					t.Errorf("expected %q in output:\n%s", want, output.String())
				}
			}
		})
	})

	t.Run("Setup", func(t *testing.T) {
		t.Run("loads file and applies env", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			content := "[upstream]\ntoken_endpoint = \"http://tokens.local/anon\"\n\n[log]\nlevel = \"debug\"\n"
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			t.Setenv("PORT", "4321")

			runner, _, _, _ := newTestRunner()
			root := &cli.Command{
				Name:     "solify",
				Flags:    []cli.Flag{configFlag()},
				Before:   runner.Setup,
				Commands: runner.register(),
			}
			if err := root.Run(context.Background(), []string{"solify", "--config", path, "config", "show"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if runner.config.Upstream.TokenEndpoint != "http://tokens.local/anon" {
				t.Errorf("expected token endpoint from file, got %s", runner.config.Upstream.TokenEndpoint)
			}
			if runner.config.Server.Port != 4321 {
				t.Errorf("expected PORT override, got %d", runner.config.Server.Port)
			}
			if runner.logger.GetLevel() != log.DebugLevel {
				t.Errorf("expected debug level, got %v", runner.logger.GetLevel())
			}
		})

		t.Run("invalid env", func(t *testing.T) {
			t.Setenv("PORT", "not-a-port")
			runner, _, _, _ := newTestRunner()
			root := &cli.Command{
				Name:     "solify",
				Flags:    []cli.Flag{configFlag()},
				Before:   runner.Setup,
				Commands: runner.register(),
			}
			err := root.Run(context.Background(), []string{"solify", "--config", filepath.Join(t.TempDir(), "none.toml"), "config", "show"})
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}
