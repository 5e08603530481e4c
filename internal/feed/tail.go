package feed

import (
	"context"
	"fmt"

	"github.com/hpcloud/tail"
)

// Tail follows a JSON lines event log on the local file system, such as the
// one written by a simulator run through the local channel.
type Tail struct {
	Path string

	// Poll uses polling instead of inotify to detect changes.
	Poll bool
}

func (this *Tail) Run(ctx context.Context, handle Handler) error {
	t, err := tail.TailFile(this.Path, tail.Config{Follow: true, ReOpen: true, Poll: this.Poll, MustExist: false})
	if err != nil {
		return fmt.Errorf("setting up tail for %s: %w", this.Path, err)
	}

	defer t.Cleanup()
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}

			if line.Err != nil {
				return fmt.Errorf("tailing %s: %w", this.Path, line.Err)
			}

			if e, ok := decode([]byte(line.Text)); ok {
				handle(e)
			}
		}
	}
}
