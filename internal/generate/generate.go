package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sopiot/scheduling-framework-sub001/types"
	v1 "github.com/sopiot/scheduling-framework-sub001/types/version/v1"
	"github.com/sopiot/scheduling-framework-sub001/util/shell"

	log "github.com/activeshadow/libminimega/minilog"
)

var ErrGeneratorNotFound = errors.New("topology generator not found")

// Command returns the name of the external program for the given generator.
func Command(generator string) string {
	return "schedbench-generator-" + generator
}

// Topology turns a simulation config into a topology spec by running its
// generator. The generator reads the config as JSON on STDIN and writes a
// topology spec as JSON on STDOUT.
func Topology(ctx context.Context, c *types.Config) (*v1.TopologySpec, error) {
	spec, err := c.SimulationSpec()
	if err != nil {
		return nil, err
	}

	if spec.Generator == "" {
		return nil, types.NewConfigurationError("simulation %s has no generator", c.Metadata.Name)
	}

	cmdName := Command(spec.Generator)

	if !shell.CommandExists(cmdName) {
		return nil, fmt.Errorf("generator %s does not exist in your path: %w", cmdName, ErrGeneratorNotFound)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling simulation config to JSON: %w", err)
	}

	opts := []shell.Option{
		shell.Command(cmdName),
		shell.Stdin(data),
	}

	stdOut, stdErr, err := shell.ExecCommand(ctx, opts...)
	if err != nil {
		if msg := strings.TrimSpace(string(stdErr)); msg != "" {
			log.Error("generator %s: %s", cmdName, msg)
		}

		return nil, fmt.Errorf("generator %s for simulation %s failed: %w", cmdName, c.Metadata.Name, err)
	}

	var topo v1.TopologySpec

	if err := json.Unmarshal(stdOut, &topo); err != nil {
		return nil, fmt.Errorf("unmarshaling topology spec from JSON: %w", err)
	}

	applyHosts(&topo.Root, spec.Hosts, new(int))
	topo.SetDefaults()

	return &topo, nil
}

// applyHosts assigns the simulation's hosts round robin, deepest nodes last,
// to generated middleware nodes that have none.
func applyHosts(m *v1.MiddlewareSpec, hosts []v1.HostSpec, next *int) {
	if len(hosts) == 0 {
		return
	}

	if m.Host == "" {
		h := hosts[*next%len(hosts)]

		m.Host = h.Host

		if m.Port == 0 {
			m.Port = h.Port
		}

		if m.User == "" {
			m.User = h.User
		}

		*next++
	}

	for i := range m.Children {
		applyHosts(&m.Children[i], hosts, next)
	}
}
