package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/sopiot/scheduling-framework-sub001/types"
)

// Channel runs commands on, and copies files to, a single middleware host.
// None of the methods impose a timeout of their own; callers bound them with
// the given context.
type Channel interface {
	SendCommand(context.Context, string) ([]string, error)
	SendFile(ctx context.Context, local, remote string) error
	SendDir(ctx context.Context, local, remote string) error
	Close() error
}

// Dialer opens a channel to the host of a middleware node.
type Dialer interface {
	Dial(context.Context, *types.MiddlewareNode) (Channel, error)
}

type DialerFunc func(context.Context, *types.MiddlewareNode) (Channel, error)

func (this DialerFunc) Dial(ctx context.Context, node *types.MiddlewareNode) (Channel, error) {
	return this(ctx, node)
}

// ExitError is returned when a remote command finishes with a non-zero exit
// status.
type ExitError struct {
	Command string
	Status  int
	Output  []string
}

func (this ExitError) Error() string {
	msg := fmt.Sprintf("command '%s' exited with status %d", this.Command, this.Status)

	if len(this.Output) > 0 {
		msg += ": " + this.Output[len(this.Output)-1]
	}

	return msg
}

// Lines splits command output into lines, dropping the trailing empty line.
func Lines(out []byte) []string {
	s := strings.TrimRight(string(out), "\r\n")

	if s == "" {
		return nil
	}

	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// Quote single-quotes a string for a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
