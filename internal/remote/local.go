package remote

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"

	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/util/shell"
)

// LocalDialer hands out channels that run everything on this machine. It is
// used for single-host test beds where every middleware node runs locally.
type LocalDialer struct {
	// Dir is the working directory for commands. Empty means the current one.
	Dir string
}

func (this LocalDialer) Dial(_ context.Context, node *types.MiddlewareNode) (Channel, error) {
	return &Local{Dir: this.Dir}, nil
}

type Local struct {
	Dir string
}

func (this *Local) SendCommand(ctx context.Context, cmd string) ([]string, error) {
	stdout, stderr, err := shell.ExecCommand(ctx, shell.Command("sh"), shell.Args("-c", cmd), shell.Dir(this.Dir))

	lines := append(Lines(stdout), Lines(stderr)...)

	if err != nil {
		var exit *exec.ExitError

		if errors.As(err, &exit) && ctx.Err() == nil {
			return lines, &ExitError{Command: cmd, Status: exit.ExitCode(), Output: lines}
		}

		return lines, fmt.Errorf("running '%s': %w", cmd, err)
	}

	return lines, nil
}

func (this *Local) SendFile(ctx context.Context, local, remote string) error {
	cmd := fmt.Sprintf("mkdir -p %s && cp -p %s %s", Quote(path.Dir(remote)), Quote(local), Quote(remote))

	if _, err := this.SendCommand(ctx, cmd); err != nil {
		return fmt.Errorf("copying %s to %s: %w", local, remote, err)
	}

	return nil
}

func (this *Local) SendDir(ctx context.Context, local, remote string) error {
	cmd := fmt.Sprintf("mkdir -p %s && cp -Rp %s/. %s", Quote(remote), Quote(local), Quote(remote))

	if _, err := this.SendCommand(ctx, cmd); err != nil {
		return fmt.Errorf("copying %s to %s: %w", local, remote, err)
	}

	return nil
}

func (this *Local) Close() error {
	return nil
}
