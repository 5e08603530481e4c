package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/sopiot/scheduling-framework-sub001/internal/generate"
	"github.com/sopiot/scheduling-framework-sub001/store"
	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/util/editor"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

func List(which string) (types.Configs, error) {
	var (
		configs types.Configs
		err     error
	)

	switch which {
	case "", "all":
		configs, err = store.List(types.KindTopology, types.KindSimulation)
	case "topology":
		configs, err = store.List(types.KindTopology)
	case "simulation":
		configs, err = store.List(types.KindSimulation)
	default:
		return nil, fmt.Errorf("unknown config kind provided")
	}

	if err != nil {
		return nil, fmt.Errorf("getting list of configs from store: %w", err)
	}

	return configs, nil
}

// Get returns the stored config for a `kind/name` pair.
func Get(name string) (*types.Config, error) {
	c, err := types.NewConfig(name)
	if err != nil {
		return nil, err
	}

	if err := store.Get(c); err != nil {
		return nil, fmt.Errorf("getting config from store: %w", err)
	}

	return c, nil
}

func Create(path string) (*types.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("no config file provided")
	}

	c, err := types.NewConfigFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("creating new config from file: %w", err)
	}

	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if err := store.Create(c); err != nil {
		return nil, fmt.Errorf("storing config: %w", err)
	}

	return c, nil
}

func Edit(name string) (*types.Config, error) {
	c, err := Get(name)
	if err != nil {
		return nil, err
	}

	body, err := yaml.Marshal(c.Spec)
	if err != nil {
		return nil, fmt.Errorf("marshaling config to YAML: %w", err)
	}

	body, err = editor.EditData(body)
	if err != nil {
		return nil, fmt.Errorf("editing config: %w", err)
	}

	var spec map[string]interface{}

	if err := yaml.Unmarshal(body, &spec); err != nil {
		return nil, fmt.Errorf("unmarshaling config as YAML: %w", err)
	}

	c.Spec = spec

	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if err := store.Update(c); err != nil {
		return nil, fmt.Errorf("updating config in store: %w", err)
	}

	return c, nil
}

func Delete(name string) error {
	if name == "all" {
		configs, err := List("all")
		if err != nil {
			return err
		}

		for _, c := range configs {
			if err := store.Delete(&c); err != nil {
				return fmt.Errorf("deleting config in store: %w", err)
			}
		}

		return nil
	}

	c, err := Get(name)
	if err != nil {
		return fmt.Errorf("getting config '%s': %w", name, err)
	}

	if err := store.Delete(c); err != nil {
		return fmt.Errorf("deleting config in store: %w", err)
	}

	return nil
}

func IsConfigNotModified(err error) bool {
	return errors.Is(err, editor.ErrNoChange)
}

// Validate checks that a topology config builds into a valid tree and that a
// simulation config names a generator.
func Validate(c *types.Config) error {
	switch c.Kind {
	case types.KindTopology:
		spec, err := c.TopologySpec()
		if err != nil {
			return types.NewConfigurationError("topology %s: %v", c.Metadata.Name, err)
		}

		if _, err := types.NewTopology(c.Metadata.Name, *spec); err != nil {
			return err
		}
	case types.KindSimulation:
		spec, err := c.SimulationSpec()
		if err != nil {
			return types.NewConfigurationError("simulation %s: %v", c.Metadata.Name, err)
		}

		if spec.Generator == "" {
			return types.NewConfigurationError("simulation %s has no generator", c.Metadata.Name)
		}
	default:
		return types.NewConfigurationError("unknown config kind %s", c.Kind)
	}

	return nil
}

// Load reads a config from a file if one exists at the given path, falling
// back to the stored config of the given kind with that name.
func Load(kind, pathOrName string) (*types.Config, error) {
	if path, err := homedir.Expand(pathOrName); err == nil {
		if _, err := os.Stat(path); err == nil {
			c, err := types.NewConfigFromFile(path)
			if err != nil {
				return nil, err
			}

			if c.Kind != kind {
				return nil, types.NewConfigurationError("config %s is a %s, not a %s", path, c.Kind, kind)
			}

			return c, nil
		}
	}

	c, err := types.NewConfig(kind + "/" + pathOrName)
	if err != nil {
		return nil, types.NewConfigurationError("%v", err)
	}

	if err := store.Get(c); err != nil {
		return nil, types.NewConfigurationError("%s %s is neither a file nor a stored config", kind, pathOrName)
	}

	return c, nil
}

// LoadSimulations loads every given simulation config. Simulation names must
// be unique across all of them; every duplicate is named in the returned
// ConfigurationError.
func LoadSimulations(paths []string) ([]*types.Config, error) {
	var (
		configs []*types.Config
		seen    = make(map[string]int)
	)

	for _, p := range paths {
		c, err := Load(types.KindSimulation, p)
		if err != nil {
			return nil, err
		}

		if err := Validate(c); err != nil {
			return nil, err
		}

		seen[c.Metadata.Name]++
		configs = append(configs, c)
	}

	var dups []string

	for name, count := range seen {
		if count > 1 {
			dups = append(dups, name)
		}
	}

	if len(dups) > 0 {
		sort.Strings(dups)

		return nil, &types.ConfigurationError{Msg: "duplicate simulation names", Duplicates: dups}
	}

	return configs, nil
}

// Topologies resolves the topology source of a comparison run: either a single
// topology config or a set of simulation configs, each generated into its own
// topology named after the simulation.
func Topologies(ctx context.Context, topology string, simulations []string) ([]*types.Topology, error) {
	switch {
	case topology != "" && len(simulations) > 0:
		return nil, types.NewConfigurationError("provide either a topology or simulation configs, not both")
	case topology != "":
		c, err := Load(types.KindTopology, topology)
		if err != nil {
			return nil, err
		}

		spec, err := c.TopologySpec()
		if err != nil {
			return nil, types.NewConfigurationError("topology %s: %v", c.Metadata.Name, err)
		}

		topo, err := types.NewTopology(c.Metadata.Name, *spec)
		if err != nil {
			return nil, err
		}

		return []*types.Topology{topo}, nil
	case len(simulations) > 0:
		configs, err := LoadSimulations(simulations)
		if err != nil {
			return nil, err
		}

		var topos []*types.Topology

		for _, c := range configs {
			spec, err := generate.Topology(ctx, c)
			if err != nil {
				return nil, types.NewConfigurationError("generating topology for simulation %s: %v", c.Metadata.Name, err)
			}

			topo, err := types.NewTopology(c.Metadata.Name, *spec)
			if err != nil {
				return nil, err
			}

			topos = append(topos, topo)
		}

		return topos, nil
	}

	return nil, types.NewConfigurationError("no topology or simulation configs provided")
}
