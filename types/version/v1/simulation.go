package v1

// SimulationSpec is a topology generation config. The generator named by
// `Generator` turns it into a TopologySpec; the parameters are passed through
// untouched.
type SimulationSpec struct {
	Generator  string                 `json:"generator" yaml:"generator" structs:"generator"`
	Parameters map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty" structs:"parameters"`
	Hosts      []HostSpec             `json:"hosts,omitempty" yaml:"hosts,omitempty" structs:"hosts"`
}

type HostSpec struct {
	Host string `json:"host" yaml:"host" structs:"host"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty" structs:"port"`
	User string `json:"user,omitempty" yaml:"user,omitempty" structs:"user"`
}
