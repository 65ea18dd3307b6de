package tasks

import (
	"context"
	"fmt"
)

// Stage is a resolver state.
type Stage int

const (
	Start Stage = iota
	TokenAcquired
	UpstreamCalled
	Transformed
	Enriched
	Done
	Failed
)

func (s Stage) String() string {
	switch s {
	case Start:
		return "start"
	case TokenAcquired:
		return "token_acquired"
	case UpstreamCalled:
		return "upstream_called"
	case Transformed:
		return "transformed"
	case Enriched:
		return "enriched"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// ProgressUpdate represents a resolver stage transition.
//
// Used to send real-time updates to the CLI for display.
type ProgressUpdate struct {
	Operation string // Resolver operation, e.g. "playlist_full"
	Stage     Stage  // Stage just entered
	Message   string // Human-readable message for display
}

type progressKey struct{}

// WithProgress returns a context whose resolver calls report stage
// transitions on progress. Sends never block; updates are dropped when the
// channel is full.
func WithProgress(ctx context.Context, progress chan<- ProgressUpdate) context.Context {
	return context.WithValue(ctx, progressKey{}, progress)
}

// sendProgress sends a progress update through the context's channel without blocking.
func sendProgress(ctx context.Context, update ProgressUpdate) {
	progress, _ := ctx.Value(progressKey{}).(chan<- ProgressUpdate)
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func stageUpdate(op string, stage Stage, detail string) ProgressUpdate {
	msg := fmt.Sprintf("%s: %s", op, stage)
	if detail != "" {
		msg += " (" + detail + ")"
	}
	return ProgressUpdate{Operation: op, Stage: stage, Message: msg}
}

// ResolveError records the stage a resolver operation failed in.
type ResolveError struct {
	Stage Stage
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }
