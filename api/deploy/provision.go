package deploy

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/internal/metrics"
	"github.com/sopiot/scheduling-framework-sub001/internal/remote"
	"github.com/sopiot/scheduling-framework-sub001/types"

	log "github.com/activeshadow/libminimega/minilog"
)

const (
	StepConnect    = "connect"
	StepSendBundle = "send-bundle"
	StepSendPolicy = "send-policy"
	StepStart      = "start"
	StepKill       = "kill"
	StepDiagnostic = "diagnostic"
)

const DefaultCommand = "./middleware --name ${NAME} --mqtt-port ${MQTT_PORT} --policy ${POLICY} ${PARENT_ARGS}"

// Bundle describes the middleware build delivered to every node.
type Bundle struct {
	// Dir is the local directory holding the middleware binary and its files.
	Dir string

	// RemoteDir is used for nodes that don't set their own remote directory.
	RemoteDir string

	// Command starts the middleware from within the remote directory. It is
	// expanded per node, see Provisioner.Command.
	Command string
}

// Provisioner builds the per-node deployment tasks for one topology.
type Provisioner struct {
	Topology *types.Topology
	Dialer   remote.Dialer
	Bundle   Bundle
}

func (this Provisioner) RemoteDir(node *types.MiddlewareNode) string {
	if node.RemoteDir != "" {
		return node.RemoteDir
	}

	if this.Bundle.RemoteDir != "" {
		return this.Bundle.RemoteDir
	}

	return "/tmp/schedbench"
}

// PolicyPath is where the given policy artifact lives on the node.
func (this Provisioner) PolicyPath(node *types.MiddlewareNode, policy string) string {
	return path.Join(this.RemoteDir(node), "policy", filepath.Base(policy))
}

// Provision delivers the middleware bundle to nodes not yet provisioned in the
// current session, then always delivers the policy artifact.
func (this Provisioner) Provision(policy string) Task {
	return func(ctx context.Context, node *types.MiddlewareNode) error {
		return this.with(ctx, node, func(ch remote.Channel) error {
			dir := this.RemoteDir(node)

			if !node.Provisioned {
				start := time.Now()
				err := ch.SendDir(ctx, this.Bundle.Dir, dir)

				metrics.ObserveDeploy(StepSendBundle, start, err)

				if err != nil {
					return NewNodeError(node, StepSendBundle, err)
				}

				node.Provisioned = true
			} else {
				log.Debug("middleware %s already provisioned, only sending policy", node.Name)
			}

			start := time.Now()
			err := ch.SendFile(ctx, policy, this.PolicyPath(node, policy))

			metrics.ObserveDeploy(StepSendPolicy, start, err)

			if err != nil {
				return NewNodeError(node, StepSendPolicy, err)
			}

			return nil
		})
	}
}

// Start launches the middleware process on each node in the background,
// recording its PID in the remote directory.
func (this Provisioner) Start(policy string) Task {
	return func(ctx context.Context, node *types.MiddlewareNode) error {
		return this.with(ctx, node, func(ch remote.Channel) error {
			cmd := fmt.Sprintf(
				"cd %s && (nohup %s > middleware.log 2>&1 & echo $! > middleware.pid)",
				remote.Quote(this.RemoteDir(node)), this.Command(node, policy),
			)

			start := time.Now()
			_, err := ch.SendCommand(ctx, cmd)

			metrics.ObserveDeploy(StepStart, start, err)

			if err != nil {
				return NewNodeError(node, StepStart, err)
			}

			return nil
		})
	}
}

// Kill stops a middleware process started by Start. Nodes without a running
// process are left alone.
func (this Provisioner) Kill() Task {
	return func(ctx context.Context, node *types.MiddlewareNode) error {
		return this.with(ctx, node, func(ch remote.Channel) error {
			cmd := fmt.Sprintf(
				"cd %s 2>/dev/null || exit 0; if [ -f middleware.pid ]; then kill $(cat middleware.pid) 2>/dev/null; rm -f middleware.pid; fi",
				remote.Quote(this.RemoteDir(node)),
			)

			start := time.Now()
			_, err := ch.SendCommand(ctx, cmd)

			metrics.ObserveDeploy(StepKill, start, err)

			if err != nil {
				return NewNodeError(node, StepKill, err)
			}

			return nil
		})
	}
}

// Diagnostic runs an arbitrary command on each node and hands the output to
// collect, which may be called concurrently.
func (this Provisioner) Diagnostic(cmd string, collect func(*types.MiddlewareNode, []string)) Task {
	return func(ctx context.Context, node *types.MiddlewareNode) error {
		return this.with(ctx, node, func(ch remote.Channel) error {
			out, err := ch.SendCommand(ctx, cmd)

			if collect != nil {
				collect(node, out)
			}

			if err != nil {
				return NewNodeError(node, StepDiagnostic, err)
			}

			return nil
		})
	}
}

// Command expands the middleware start command for the given node. The
// following variables are available: NAME, LEVEL, HOST, MQTT_PORT,
// PARENT_NAME, PARENT_HOST, PARENT_MQTT_PORT, PARENT_ARGS, DIR and POLICY.
// The parent variables are empty for the root.
func (this Provisioner) Command(node *types.MiddlewareNode, policy string) string {
	vars := map[string]string{
		"NAME":      node.Name,
		"LEVEL":     strconv.Itoa(node.Level),
		"HOST":      node.Host,
		"MQTT_PORT": strconv.Itoa(node.MQTTPort),
		"DIR":       this.RemoteDir(node),
		"POLICY":    this.PolicyPath(node, policy),
	}

	if this.Topology != nil {
		if parent := this.Topology.ParentOf(node); parent != nil {
			vars["PARENT_NAME"] = parent.Name
			vars["PARENT_HOST"] = parent.Host
			vars["PARENT_MQTT_PORT"] = strconv.Itoa(parent.MQTTPort)
			vars["PARENT_ARGS"] = fmt.Sprintf("--parent-host %s --parent-port %d", parent.Host, parent.MQTTPort)
		}
	}

	cmd := this.Bundle.Command
	if cmd == "" {
		cmd = DefaultCommand
	}

	return os.Expand(cmd, func(v string) string {
		return vars[v]
	})
}

func (this Provisioner) with(ctx context.Context, node *types.MiddlewareNode, fn func(remote.Channel) error) error {
	ch, err := this.Dialer.Dial(ctx, node)
	if err != nil {
		metrics.DeployErrors.WithLabelValues(StepConnect).Inc()
		return NewNodeError(node, StepConnect, err)
	}

	defer ch.Close()

	return fn(ch)
}
