package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-agency/internal/logging"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

// Outcome classifies how a command run ended.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeFailed      Outcome = "failed"
	OutcomeInterrupted Outcome = "interrupted"
)

// Run is what an Observer learns about a finished command.
type Run struct {
	Command   string
	Operation string
	Fields    map[string]any
	Elapsed   time.Duration
	Err       error
	Outcome   Outcome
}

// Observer is called once per Execute, after the wrapped function returns.
// It is not called for messages rejected by validation.
type Observer[T command.Message] func(ctx context.Context, msg T, run Run)

// LogObserver writes one "command.finished" line per run. Interrupted runs
// are warnings because an operator usually caused them.
func LogObserver[T command.Message](logger interfaces.Logger) Observer[T] {
	logger = logging.Ensure(logger)
	return func(_ context.Context, _ T, run Run) {
		entry := logging.WithFields(logger, run.Fields)
		args := []any{"outcome", string(run.Outcome), "elapsed_ms", run.Elapsed.Milliseconds()}
		if run.Err != nil {
			args = append(args, "error", run.Err)
		}
		switch run.Outcome {
		case OutcomeCompleted:
			entry.Info("command.finished", args...)
		case OutcomeInterrupted:
			entry.Warn("command.finished", args...)
		default:
			entry.Error("command.finished", args...)
		}
	}
}
