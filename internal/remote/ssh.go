package remote

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/types"

	log "github.com/activeshadow/libminimega/minilog"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/crypto/ssh"
)

// SSHDialer opens SSH channels using public key authentication. Node level
// user and port settings take precedence over the dialer's.
type SSHDialer struct {
	User    string
	KeyFile string
	Port    int
	Timeout time.Duration
}

func (this SSHDialer) Dial(ctx context.Context, node *types.MiddlewareNode) (Channel, error) {
	user := this.User
	if node.User != "" {
		user = node.User
	}

	port := this.Port
	if node.Port != 0 {
		port = node.Port
	}

	if port == 0 {
		port = 22
	}

	host := node.Host
	if host == "" {
		return nil, fmt.Errorf("middleware %s has no host", node.Name)
	}

	signer, err := this.signer()
	if err != nil {
		return nil, err
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         this.Timeout,
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))

	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s for middleware %s: %w", addr, node.Name, err)
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("establishing SSH connection to %s: %w", addr, err)
	}

	log.Debug("opened SSH channel to %s@%s for middleware %s", user, addr, node.Name)

	return &SSH{client: ssh.NewClient(c, chans, reqs), addr: addr}, nil
}

func (this SSHDialer) signer() (ssh.Signer, error) {
	path, err := homedir.Expand(this.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("expanding SSH key path: %w", err)
	}

	key, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parsing SSH key %s: %w", path, err)
	}

	return signer, nil
}

// SSH is a channel over a single SSH client connection. Every operation opens
// its own session.
type SSH struct {
	client *ssh.Client
	addr   string
}

func (this *SSH) SendCommand(ctx context.Context, cmd string) ([]string, error) {
	out, err := this.run(ctx, cmd, nil)

	lines := Lines(out)

	if err != nil {
		var exit *ssh.ExitError

		if errors.As(err, &exit) {
			return lines, &ExitError{Command: cmd, Status: exit.ExitStatus(), Output: lines}
		}

		return lines, fmt.Errorf("running '%s' on %s: %w", cmd, this.addr, err)
	}

	return lines, nil
}

func (this *SSH) SendFile(ctx context.Context, local, remote string) error {
	info, err := os.Stat(local)
	if err != nil {
		return fmt.Errorf("sending file: %w", err)
	}

	f, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("sending file: %w", err)
	}

	defer f.Close()

	cmd := fmt.Sprintf(
		"mkdir -p %s && cat > %s && chmod %o %s",
		Quote(path.Dir(remote)), Quote(remote), info.Mode().Perm(), Quote(remote),
	)

	if _, err := this.send(ctx, cmd, f); err != nil {
		return fmt.Errorf("sending %s to %s:%s: %w", local, this.addr, remote, err)
	}

	return nil
}

// SendDir copies the contents of the local directory into the remote one as a
// tar stream.
func (this *SSH) SendDir(ctx context.Context, local, remote string) error {
	var buf bytes.Buffer

	if err := Archive(&buf, local); err != nil {
		return fmt.Errorf("archiving %s: %w", local, err)
	}

	cmd := fmt.Sprintf("mkdir -p %s && tar -x -C %s", Quote(remote), Quote(remote))

	if _, err := this.send(ctx, cmd, &buf); err != nil {
		return fmt.Errorf("sending %s to %s:%s: %w", local, this.addr, remote, err)
	}

	return nil
}

func (this *SSH) Close() error {
	return this.client.Close()
}

func (this *SSH) send(ctx context.Context, cmd string, stdin io.Reader) ([]string, error) {
	out, err := this.run(ctx, cmd, stdin)
	if err != nil {
		var exit *ssh.ExitError

		if errors.As(err, &exit) {
			return nil, &ExitError{Command: cmd, Status: exit.ExitStatus(), Output: Lines(out)}
		}

		return nil, err
	}

	return Lines(out), nil
}

func (this *SSH) run(ctx context.Context, cmd string, stdin io.Reader) ([]byte, error) {
	session, err := this.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("opening SSH session: %w", err)
	}

	defer session.Close()

	var out bytes.Buffer

	session.Stdout = &out
	session.Stderr = &out
	session.Stdin = stdin

	done := make(chan error, 1)

	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case err := <-done:
		return out.Bytes(), err
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		session.Close()

		<-done

		return out.Bytes(), ctx.Err()
	}
}

// Archive writes the regular files and directories under dir to w as a tar
// stream, with names relative to dir.
func Archive(w io.Writer, dir string) error {
	tw := tar.NewWriter(w)

	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}

		hdr.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}

		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})

	if err != nil {
		return err
	}

	return tw.Close()
}
