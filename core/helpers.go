package orchestration

import (
	"context"
	"errors"
	"fmt"
)

// isRunAborted reports whether err means the workflow run itself stopped,
// rather than a collaborator failing.
func isRunAborted(ctx context.Context, err error) bool {
	return errors.Is(err, ErrSuperseded) || ctx.Err() != nil
}

type workerRun func(context.Context) error

func panicSafeNamedWorker(name string, run func(context.Context) error) workerRun {
	return func(ctx context.Context) (err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = fmt.Errorf("%s worker panicked: %v", name, recovered)
			}
		}()

		if err = run(ctx); err != nil {
			return fmt.Errorf("%s worker failed: %w", name, err)
		}

		return nil
	}
}

// goWorker runs a panic-safe worker in the background and logs its failure.
func goWorker(ctx context.Context, name string, run func(context.Context) error) {
	worker := panicSafeNamedWorker(name, run)
	go func() {
		if err := worker(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
			logger.WarnContext(ctx, "background worker failed", "worker", name, "error", err)
		}
	}()
}
