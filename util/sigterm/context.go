package sigterm

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// CancelContext returns a context canceled on the first SIGTERM or SIGINT.
func CancelContext(ctx context.Context) context.Context {
	ctxWithCancel, cancel := context.WithCancel(ctx)

	go func() {
		defer cancel()

		term := make(chan os.Signal, 1)
		signal.Notify(term, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(term)

		select {
		case <-term:
		case <-ctx.Done():
		}
	}()

	return ctxWithCancel
}
