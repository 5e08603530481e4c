package simulator

import "github.com/sopiot/scheduling-framework-sub001/types"

// Manifest tells the simulator which things and scenarios to register with
// which middleware.
type Manifest struct {
	Topology   string               `json:"topology"`
	Middleware []ManifestMiddleware `json:"middleware"`
}

type ManifestMiddleware struct {
	Name      string             `json:"name"`
	Host      string             `json:"host"`
	MQTTPort  int                `json:"mqttPort"`
	Parent    string             `json:"parent,omitempty"`
	Things    []ManifestThing    `json:"things,omitempty"`
	Scenarios []ManifestScenario `json:"scenarios,omitempty"`
}

type ManifestThing struct {
	Name      string   `json:"name"`
	Super     bool     `json:"super,omitempty"`
	Functions []string `json:"functions,omitempty"`
}

type ManifestScenario struct {
	Name   string   `json:"name"`
	Things []string `json:"things,omitempty"`
	Period float64  `json:"period,omitempty"`
}

func NewManifest(topo *types.Topology) Manifest {
	m := Manifest{Topology: topo.Name}

	for _, node := range topo.TraverseNodes(topo.Root()) {
		mw := ManifestMiddleware{
			Name:     node.Name,
			Host:     node.Host,
			MQTTPort: node.MQTTPort,
		}

		if parent := topo.ParentOf(node); parent != nil {
			mw.Parent = parent.Name
		}

		for _, id := range node.Things {
			t := topo.Thing(id)
			mw.Things = append(mw.Things, ManifestThing{Name: t.Name, Super: t.Super, Functions: t.Functions})
		}

		for _, id := range node.Scenarios {
			s := topo.Scenario(id)
			mw.Scenarios = append(mw.Scenarios, ManifestScenario{Name: s.Name, Things: s.Things, Period: s.Period})
		}

		m.Middleware = append(m.Middleware, mw)
	}

	return m
}
