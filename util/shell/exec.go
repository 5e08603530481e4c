package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

type shell struct{}

func (shell) CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

func (shell) ExecCommand(ctx context.Context, opts ...Option) ([]byte, []byte, error) {
	o := newOptions(opts...)

	var (
		stdIn  io.Reader
		stdOut bytes.Buffer
		stdErr bytes.Buffer
	)

	if o.stdin != nil {
		stdIn = bytes.NewBuffer(o.stdin)
	}

	cmd := exec.CommandContext(ctx, o.cmd, o.args...)
	cmd.Stdin = stdIn
	cmd.Stdout = &stdOut
	cmd.Stderr = &stdErr
	cmd.Dir = o.dir

	if o.env != nil {
		cmd.Env = append(os.Environ(), o.env...)
	}

	err := cmd.Run()

	return stdOut.Bytes(), stdErr.Bytes(), err
}
