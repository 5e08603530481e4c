package sigterm

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Session hands out one context per trial of a comparison run. An interrupt
// cancels the trial in flight only. A second interrupt during the same trial,
// or one received while no trial is running, cancels the whole session.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	sync.Mutex
	trial       context.CancelFunc
	interrupted bool
}

// NewSession returns a session wired to SIGTERM and SIGINT. The signal handler
// is removed once the session context is done.
func NewSession(ctx context.Context) *Session {
	s := newSession(ctx)

	go func() {
		term := make(chan os.Signal, 2)
		signal.Notify(term, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(term)

		for {
			select {
			case <-term:
				s.Interrupt()
			case <-s.ctx.Done():
				return
			}
		}
	}()

	return s
}

func newSession(ctx context.Context) *Session {
	s := new(Session)
	s.ctx, s.cancel = context.WithCancel(ctx)

	return s
}

func (this *Session) Context() context.Context {
	return this.ctx
}

// Trial returns a context for the next trial. The returned cancel function
// must be called once the trial is over.
func (this *Session) Trial() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(this.ctx)

	this.Lock()
	this.trial = cancel
	this.interrupted = false
	this.Unlock()

	return ctx, func() {
		this.Lock()
		this.trial = nil
		this.Unlock()

		cancel()
	}
}

// Interrupt applies a single operator interrupt. It returns true if the whole
// session was canceled.
func (this *Session) Interrupt() bool {
	this.Lock()
	defer this.Unlock()

	if this.trial != nil && !this.interrupted {
		this.interrupted = true
		this.trial()

		return false
	}

	this.cancel()

	return true
}

// Stop cancels the session and releases the signal handler.
func (this *Session) Stop() {
	this.cancel()
}
