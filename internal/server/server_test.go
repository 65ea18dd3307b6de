package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/solify/internal/shared"
)

func TestServer(t *testing.T) {
	t.Run("Serves Until Cancelled", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}

		srv := New(shared.DefaultConfig().Server, &fakeResolver{}, log.New(io.Discard))
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln) }()

		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			t.Fatalf("expected server to respond, got %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if !strings.Contains(string(body), serviceName) {
			t.Errorf("unexpected body %s", body)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("Rate Limit Applied From Config", func(t *testing.T) {
		cfg := shared.DefaultConfig().Server
		cfg.RateLimit = 0.001
		cfg.Burst = 1
		h := New(cfg, &fakeResolver{}, log.New(io.Discard)).Handler()

		first, _ := do(t, h, "/", nil)
		second, _ := do(t, h, "/", nil)
		if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
			t.Errorf("expected 200 then 429, got %d then %d", first.Code, second.Code)
		}
	})

	t.Run("Run Reports Listen Failure", func(t *testing.T) {
		taken, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		defer taken.Close()

		cfg := shared.DefaultConfig().Server
		cfg.Host = "127.0.0.1"
		cfg.Port = taken.Addr().(*net.TCPAddr).Port
		err = New(cfg, &fakeResolver{}, log.New(io.Discard)).Run(context.Background())
		if err == nil {
			t.Error("expected listen error")
		}
	})
}
