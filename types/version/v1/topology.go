package v1

import "fmt"

type TopologySpec struct {
	Root MiddlewareSpec `json:"root" yaml:"root" structs:"root"`
}

// MiddlewareSpec describes one middleware node of the tree along with the
// things and scenarios it hosts and its child middleware nodes.
type MiddlewareSpec struct {
	Name      string           `json:"name" yaml:"name" structs:"name"`
	Host      string           `json:"host,omitempty" yaml:"host,omitempty" structs:"host"`
	Port      int              `json:"port,omitempty" yaml:"port,omitempty" structs:"port"`
	User      string           `json:"user,omitempty" yaml:"user,omitempty" structs:"user"`
	RemoteDir string           `json:"remoteDir,omitempty" yaml:"remoteDir,omitempty" structs:"remoteDir"`
	MQTTPort  int              `json:"mqttPort,omitempty" yaml:"mqttPort,omitempty" structs:"mqttPort"`
	Things    []ThingSpec      `json:"things,omitempty" yaml:"things,omitempty" structs:"things"`
	Scenarios []ScenarioSpec   `json:"scenarios,omitempty" yaml:"scenarios,omitempty" structs:"scenarios"`
	Children  []MiddlewareSpec `json:"children,omitempty" yaml:"children,omitempty" structs:"children"`
}

type ThingSpec struct {
	Name      string   `json:"name" yaml:"name" structs:"name"`
	Super     bool     `json:"super,omitempty" yaml:"super,omitempty" structs:"super"`
	Functions []string `json:"functions,omitempty" yaml:"functions,omitempty" structs:"functions"`
}

type ScenarioSpec struct {
	Name   string   `json:"name" yaml:"name" structs:"name"`
	Things []string `json:"things,omitempty" yaml:"things,omitempty" structs:"things"`
	Period float64  `json:"period,omitempty" yaml:"period,omitempty" structs:"period"`
}

func (this *TopologySpec) SetDefaults() {
	this.Root.setDefaults("")
}

func (this *MiddlewareSpec) setDefaults(remoteDir string) {
	if this.Port == 0 {
		this.Port = 22
	}

	if this.MQTTPort == 0 {
		this.MQTTPort = 1883
	}

	if this.RemoteDir == "" {
		this.RemoteDir = remoteDir
	}

	for i := range this.Children {
		this.Children[i].setDefaults(this.RemoteDir)
	}
}

// Validate checks the structural requirements of the spec that don't depend
// on name uniqueness (which is checked when the topology tree is built).
func (this TopologySpec) Validate() error {
	return this.Root.validate("root")
}

func (this MiddlewareSpec) validate(path string) error {
	if this.Name == "" {
		return fmt.Errorf("middleware at %s has no name", path)
	}

	for i, t := range this.Things {
		if t.Name == "" {
			return fmt.Errorf("thing %d of middleware %s has no name", i, this.Name)
		}
	}

	for i, s := range this.Scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenario %d of middleware %s has no name", i, this.Name)
		}
	}

	for _, c := range this.Children {
		if err := c.validate(path + "/" + this.Name); err != nil {
			return err
		}
	}

	return nil
}
