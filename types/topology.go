package types

import (
	"fmt"
	"sort"

	v1 "github.com/sopiot/scheduling-framework-sub001/types/version/v1"
)

type (
	NodeID     int
	ThingID    int
	ScenarioID int
)

// NoParent is the parent ID of the root middleware node.
const NoParent NodeID = -1

// MiddlewareNode is a middleware process instance positioned in the topology
// tree. Parent is a back-reference by ID and never owns the parent.
type MiddlewareNode struct {
	ID       NodeID
	Name     string
	Level    int
	Parent   NodeID
	Children []NodeID

	Things    []ThingID
	Scenarios []ScenarioID

	Host      string
	Port      int
	User      string
	RemoteDir string
	MQTTPort  int

	// Provisioned records whether the middleware bundle has already been
	// delivered to this node in the current session.
	Provisioned bool
}

type Thing struct {
	ID        ThingID
	Name      string
	Super     bool
	Functions []string
	Owner     NodeID
}

type Scenario struct {
	ID     ScenarioID
	Name   string
	Things []string
	Period float64
	Owner  NodeID
}

// Topology is an arena holding every middleware node, thing and scenario of a
// single tree. Elements reference each other by index into the arena.
type Topology struct {
	Name string

	nodes     []*MiddlewareNode
	things    []*Thing
	scenarios []*Scenario
}

// NewTopology builds the arena for the given spec. Names must be unique across
// every node, thing and scenario in the tree; all duplicates are reported in a
// single ConfigurationError.
func NewTopology(name string, spec v1.TopologySpec) (*Topology, error) {
	if err := spec.Validate(); err != nil {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("invalid topology %s: %v", name, err)}
	}

	topo := &Topology{Name: name}
	topo.add(spec.Root, NoParent, 0)

	if dups := topo.duplicates(); len(dups) > 0 {
		return nil, &ConfigurationError{
			Msg:        fmt.Sprintf("duplicate names in topology %s", name),
			Duplicates: dups,
		}
	}

	return topo, nil
}

func (this *Topology) add(spec v1.MiddlewareSpec, parent NodeID, level int) NodeID {
	node := &MiddlewareNode{
		ID:        NodeID(len(this.nodes)),
		Name:      spec.Name,
		Level:     level,
		Parent:    parent,
		Host:      spec.Host,
		Port:      spec.Port,
		User:      spec.User,
		RemoteDir: spec.RemoteDir,
		MQTTPort:  spec.MQTTPort,
	}

	this.nodes = append(this.nodes, node)

	for _, t := range spec.Things {
		thing := &Thing{
			ID:        ThingID(len(this.things)),
			Name:      t.Name,
			Super:     t.Super,
			Functions: t.Functions,
			Owner:     node.ID,
		}

		this.things = append(this.things, thing)
		node.Things = append(node.Things, thing.ID)
	}

	for _, s := range spec.Scenarios {
		scenario := &Scenario{
			ID:     ScenarioID(len(this.scenarios)),
			Name:   s.Name,
			Things: s.Things,
			Period: s.Period,
			Owner:  node.ID,
		}

		this.scenarios = append(this.scenarios, scenario)
		node.Scenarios = append(node.Scenarios, scenario.ID)
	}

	for _, c := range spec.Children {
		child := this.add(c, node.ID, level+1)
		node.Children = append(node.Children, child)
	}

	return node.ID
}

func (this *Topology) duplicates() []string {
	seen := make(map[string]int)

	for _, n := range this.nodes {
		seen[n.Name]++
	}

	for _, t := range this.things {
		seen[t.Name]++
	}

	for _, s := range this.scenarios {
		seen[s.Name]++
	}

	var dups []string

	for name, count := range seen {
		if count > 1 {
			dups = append(dups, name)
		}
	}

	sort.Strings(dups)

	return dups
}

// Root returns the ID of the root node. The root is always the first node
// added to the arena.
func (this *Topology) Root() NodeID {
	return 0
}

func (this *Topology) Node(id NodeID) *MiddlewareNode {
	if id < 0 || int(id) >= len(this.nodes) {
		return nil
	}

	return this.nodes[id]
}

func (this *Topology) Thing(id ThingID) *Thing {
	if id < 0 || int(id) >= len(this.things) {
		return nil
	}

	return this.things[id]
}

func (this *Topology) Scenario(id ScenarioID) *Scenario {
	if id < 0 || int(id) >= len(this.scenarios) {
		return nil
	}

	return this.scenarios[id]
}

// ParentOf returns the parent node of the given node, or nil for the root.
func (this *Topology) ParentOf(n *MiddlewareNode) *MiddlewareNode {
	if n == nil || n.Parent == NoParent {
		return nil
	}

	return this.Node(n.Parent)
}

func (this *Topology) Nodes() []*MiddlewareNode {
	return this.TraverseNodes(this.Root())
}

func (this *Topology) Things() []*Thing {
	return this.TraverseThings(this.Root())
}

func (this *Topology) Scenarios() []*Scenario {
	return this.TraverseScenarios(this.Root())
}

// TraverseNodes collects the given node and all of its descendants depth-first
// and returns them sorted by level, deepest first. Nodes on the same level keep
// their depth-first order.
func (this *Topology) TraverseNodes(root NodeID) []*MiddlewareNode {
	var nodes []*MiddlewareNode

	this.walk(root, func(n *MiddlewareNode) {
		nodes = append(nodes, n)
	})

	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Level > nodes[j].Level
	})

	return nodes
}

func (this *Topology) TraverseThings(root NodeID) []*Thing {
	var (
		things []*Thing
		levels []int
	)

	this.walk(root, func(n *MiddlewareNode) {
		for _, id := range n.Things {
			things = append(things, this.things[id])
			levels = append(levels, n.Level)
		}
	})

	sort.Stable(byLevel{levels: levels, swap: func(i, j int) { things[i], things[j] = things[j], things[i] }})

	return things
}

func (this *Topology) TraverseScenarios(root NodeID) []*Scenario {
	var (
		scenarios []*Scenario
		levels    []int
	)

	this.walk(root, func(n *MiddlewareNode) {
		for _, id := range n.Scenarios {
			scenarios = append(scenarios, this.scenarios[id])
			levels = append(levels, n.Level)
		}
	})

	sort.Stable(byLevel{levels: levels, swap: func(i, j int) { scenarios[i], scenarios[j] = scenarios[j], scenarios[i] }})

	return scenarios
}

// ResetProvisioned clears the provisioned marker on every node, starting a new
// deployment session.
func (this *Topology) ResetProvisioned() {
	for _, n := range this.nodes {
		n.Provisioned = false
	}
}

func (this *Topology) walk(id NodeID, fn func(*MiddlewareNode)) {
	n := this.Node(id)
	if n == nil {
		return
	}

	fn(n)

	for _, c := range n.Children {
		this.walk(c, fn)
	}
}

// byLevel sorts a parallel slice by owner level, deepest first.
type byLevel struct {
	levels []int
	swap   func(i, j int)
}

func (this byLevel) Len() int {
	return len(this.levels)
}

func (this byLevel) Less(i, j int) bool {
	return this.levels[i] > this.levels[j]
}

func (this byLevel) Swap(i, j int) {
	this.levels[i], this.levels[j] = this.levels[j], this.levels[i]
	this.swap(i, j)
}
