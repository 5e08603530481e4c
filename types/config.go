package types

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	v1 "github.com/sopiot/scheduling-framework-sub001/types/version/v1"

	"github.com/activeshadow/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const API_GROUP = "schedbench.sopiot.io"

const (
	KindTopology   = "Topology"
	KindSimulation = "Simulation"
)

type (
	Configs     []Config
	Annotations map[string]string
)

type Config struct {
	Version  string                 `json:"apiVersion" yaml:"apiVersion"`
	Kind     string                 `json:"kind" yaml:"kind"`
	Metadata ConfigMetadata         `json:"metadata" yaml:"metadata"`
	Spec     map[string]interface{} `json:"spec" yaml:"spec"`
}

type ConfigMetadata struct {
	Name        string      `json:"name" yaml:"name"`
	Created     string      `json:"created" yaml:"created"`
	Updated     string      `json:"updated" yaml:"updated"`
	Annotations Annotations `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// NewConfig returns an empty config for the given `kind/name` pair.
func NewConfig(name string) (*Config, error) {
	n := strings.Split(name, "/")

	if len(n) != 2 {
		return nil, fmt.Errorf("invalid config name provided: %s", name)
	}

	kind, name := n[0], n[1]

	c := Config{
		Kind: strings.Title(kind),
		Metadata: ConfigMetadata{
			Name: name,
		},
	}

	return &c, nil
}

func NewConfigFromFile(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	file, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	var c Config

	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(file, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(file, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid config extension")
	}

	if c.Metadata.Name == "" {
		return nil, NewConfigurationError("config %s has no metadata name", path)
	}

	switch c.Kind {
	case KindTopology, KindSimulation:
	default:
		return nil, NewConfigurationError("config %s has unknown kind '%s'", path, c.Kind)
	}

	return &c, nil
}

func NewConfigFromSpec(name string, spec interface{}) (*Config, error) {
	switch spec := spec.(type) {
	case v1.TopologySpec:
		c, err := NewConfig("topology/" + name)
		if err != nil {
			return nil, fmt.Errorf("creating new v1 topology config: %w", err)
		}

		c.Version = API_GROUP + "/v1"
		c.Spec = structs.MapDefaultCase(spec, structs.CASESNAKE)

		return c, nil
	case v1.SimulationSpec:
		c, err := NewConfig("simulation/" + name)
		if err != nil {
			return nil, fmt.Errorf("creating new v1 simulation config: %w", err)
		}

		c.Version = API_GROUP + "/v1"
		c.Spec = structs.MapDefaultCase(spec, structs.CASESNAKE)

		return c, nil
	}

	return nil, fmt.Errorf("unknown spec provided")
}

func (this Config) APIGroup() string {
	s := strings.Split(this.Version, "/")

	if len(s) < 2 {
		return ""
	}

	return s[0]
}

func (this Config) APIVersion() string {
	s := strings.Split(this.Version, "/")

	if len(s) == 0 {
		return ""
	} else if len(s) == 1 {
		return s[0]
	} else {
		return s[1]
	}
}

// TopologySpec decodes the config spec as a v1 topology spec.
func (this Config) TopologySpec() (*v1.TopologySpec, error) {
	if this.Kind != KindTopology {
		return nil, fmt.Errorf("config %s/%s is not a topology", this.Kind, this.Metadata.Name)
	}

	spec := new(v1.TopologySpec)

	if err := mapstructure.Decode(this.Spec, spec); err != nil {
		return nil, fmt.Errorf("decoding topology spec: %w", err)
	}

	spec.SetDefaults()

	return spec, nil
}

// SimulationSpec decodes the config spec as a v1 simulation spec.
func (this Config) SimulationSpec() (*v1.SimulationSpec, error) {
	if this.Kind != KindSimulation {
		return nil, fmt.Errorf("config %s/%s is not a simulation", this.Kind, this.Metadata.Name)
	}

	spec := new(v1.SimulationSpec)

	if err := mapstructure.Decode(this.Spec, spec); err != nil {
		return nil, fmt.Errorf("decoding simulation spec: %w", err)
	}

	return spec, nil
}
