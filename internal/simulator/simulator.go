package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/internal/remote"
	"github.com/sopiot/scheduling-framework-sub001/types"

	log "github.com/activeshadow/libminimega/minilog"
)

// Simulator drives the workload simulator on the root middleware host for a
// single trial. It is not reusable across trials.
type Simulator struct {
	topology *types.Topology
	dialer   remote.Dialer
	options  options

	sync.Mutex
	ch      remote.Channel
	started time.Time
	stopped time.Time
	cancel  context.CancelFunc
	feeding sync.WaitGroup
}

func New(topo *types.Topology, dialer remote.Dialer, opts ...Option) *Simulator {
	return &Simulator{
		topology: topo,
		dialer:   dialer,
		options:  newOptions(opts...),
	}
}

func (this *Simulator) root() *types.MiddlewareNode {
	return this.topology.Node(this.topology.Root())
}

func (this *Simulator) dir() string {
	if d := this.root().RemoteDir; d != "" {
		return d
	}

	return this.options.remoteDir
}

// Command expands the simulator command. The following variables are
// available: ROOT_NAME, ROOT_HOST, MQTT_PORT, DIR, MANIFEST and EVENT_LOG.
func (this *Simulator) Command() string {
	root := this.root()

	vars := map[string]string{
		"ROOT_NAME": root.Name,
		"ROOT_HOST": root.Host,
		"MQTT_PORT": strconv.Itoa(root.MQTTPort),
		"DIR":       this.dir(),
		"MANIFEST":  path.Join(this.dir(), "manifest.json"),
		"EVENT_LOG": path.Join(this.dir(), this.options.eventLog),
	}

	if vars["ROOT_HOST"] == "" {
		vars["ROOT_HOST"] = "localhost"
	}

	return os.Expand(this.options.command, func(v string) string {
		return vars[v]
	})
}

// Start sends the scenario manifest to the root host and launches the
// simulator in the background.
func (this *Simulator) Start(ctx context.Context) error {
	this.Lock()
	defer this.Unlock()

	if this.ch != nil {
		return fmt.Errorf("simulator already started")
	}

	ch, err := this.dialer.Dial(ctx, this.root())
	if err != nil {
		return fmt.Errorf("%w: connecting to root middleware %s: %v", types.ErrExecution, this.root().Name, err)
	}

	if err := this.sendManifest(ctx, ch); err != nil {
		ch.Close()
		return fmt.Errorf("%w: sending scenario manifest: %v", types.ErrExecution, err)
	}

	cmd := fmt.Sprintf(
		"cd %s && rm -f %s && (nohup %s > simulator.out 2>&1 & echo $! > simulator.pid)",
		remote.Quote(this.dir()), remote.Quote(this.options.eventLog), this.Command(),
	)

	log.Debug("starting simulator: %s", cmd)

	if _, err := ch.SendCommand(ctx, cmd); err != nil {
		ch.Close()
		return fmt.Errorf("%w: starting simulator: %v", types.ErrExecution, err)
	}

	this.ch = ch
	this.started = time.Now()

	if this.options.feed != nil {
		fctx, cancel := context.WithCancel(ctx)
		this.cancel = cancel

		this.feeding.Add(1)

		go func() {
			defer this.feeding.Done()

			if err := this.options.feed.Run(fctx, this.options.handler); err != nil {
				log.Warn("live event feed stopped: %v", err)
			}
		}()
	}

	return nil
}

// Wait blocks until the simulator process exits or the context is done.
func (this *Simulator) Wait(ctx context.Context) error {
	this.Lock()
	ch := this.ch
	this.Unlock()

	if ch == nil {
		return fmt.Errorf("simulator not started")
	}

	cmd := fmt.Sprintf("cd %s && kill -0 $(cat simulator.pid) 2>/dev/null", remote.Quote(this.dir()))

	ticker := time.NewTicker(this.options.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for simulator: %v", types.ErrCancelled, ctx.Err())
		case <-ticker.C:
			_, err := ch.SendCommand(ctx, cmd)
			if err == nil {
				continue
			}

			if ctx.Err() != nil {
				return fmt.Errorf("%w: waiting for simulator: %v", types.ErrCancelled, ctx.Err())
			}

			var exit *remote.ExitError

			if !errors.As(err, &exit) {
				return fmt.Errorf("%w: checking simulator: %v", types.ErrExecution, err)
			}

			log.Debug("simulator exited after %v", time.Since(this.started))

			this.Lock()
			this.stopped = time.Now()
			this.Unlock()

			this.stopFeed()

			return nil
		}
	}
}

// Collect fetches the simulator event log. The duration is the time spanned by
// the log, or the wall clock time between Start and the end of Wait if the log
// spans no time at all.
func (this *Simulator) Collect(ctx context.Context) (types.Timeline, time.Duration, error) {
	this.Lock()
	ch := this.ch
	wall := this.stopped.Sub(this.started)
	this.Unlock()

	if ch == nil {
		return nil, 0, fmt.Errorf("simulator not started")
	}

	out, err := ch.SendCommand(ctx, fmt.Sprintf("cat %s", remote.Quote(path.Join(this.dir(), this.options.eventLog))))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading simulator event log: %v", types.ErrExecution, err)
	}

	timeline, err := types.ReadTimeline(strings.NewReader(strings.Join(out, "\n")))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: parsing simulator event log: %v", types.ErrEvaluation, err)
	}

	if span := timeline.Span(); span > 0 {
		return timeline, span, nil
	}

	if wall < 0 {
		wall = 0
	}

	return timeline, wall, nil
}

// Stop kills the simulator if it is still running and releases the channel.
// It is safe to call more than once.
func (this *Simulator) Stop(ctx context.Context) error {
	this.stopFeed()

	this.Lock()
	defer this.Unlock()

	if this.ch == nil {
		return nil
	}

	defer func() {
		this.ch.Close()
		this.ch = nil
	}()

	cmd := fmt.Sprintf(
		"cd %s 2>/dev/null || exit 0; if [ -f simulator.pid ]; then kill $(cat simulator.pid) 2>/dev/null; rm -f simulator.pid; fi; exit 0",
		remote.Quote(this.dir()),
	)

	if _, err := this.ch.SendCommand(ctx, cmd); err != nil {
		return fmt.Errorf("stopping simulator: %w", err)
	}

	return nil
}

func (this *Simulator) stopFeed() {
	this.Lock()
	cancel := this.cancel
	this.cancel = nil
	this.Unlock()

	if cancel != nil {
		cancel()
		this.feeding.Wait()
	}
}

func (this *Simulator) sendManifest(ctx context.Context, ch remote.Channel) error {
	body, err := json.MarshalIndent(NewManifest(this.topology), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	f, err := ioutil.TempFile("", "schedbench-manifest-*.json")
	if err != nil {
		return fmt.Errorf("creating manifest file: %w", err)
	}

	defer os.Remove(f.Name())

	if _, err := bytes.NewReader(body).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing manifest file: %w", err)
	}

	f.Close()

	return ch.SendFile(ctx, f.Name(), path.Join(this.dir(), "manifest.json"))
}
