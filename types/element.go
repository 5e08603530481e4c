package types

// Element is one of *MiddlewareNode, *Thing or *Scenario.
type Element interface {
	element()
}

func (*MiddlewareNode) element() {}
func (*Thing) element()          {}
func (*Scenario) element()       {}

// ElementName returns the name of the given element, or an empty string for a
// nil element.
func ElementName(e Element) string {
	switch e := e.(type) {
	case *MiddlewareNode:
		return e.Name
	case *Thing:
		return e.Name
	case *Scenario:
		return e.Name
	}

	return ""
}

// FindFunc searches the subtree rooted at root for the first element matching
// the given predicate. At each node the node itself is checked first, then its
// things, then its scenarios, then the identities of its children, and only
// then does the search descend into each child.
//
// The returned node is the owner of the match: the owning node for things and
// scenarios, the parent for middleware nodes. A match on root itself returns a
// nil owner, as does a failed search (along with a nil element).
func (this *Topology) FindFunc(root NodeID, match func(Element) bool) (Element, *MiddlewareNode) {
	node := this.Node(root)
	if node == nil {
		return nil, nil
	}

	if match(node) {
		return node, nil
	}

	return this.find(node, match)
}

func (this *Topology) find(node *MiddlewareNode, match func(Element) bool) (Element, *MiddlewareNode) {
	for _, id := range node.Things {
		if t := this.things[id]; match(t) {
			return t, node
		}
	}

	for _, id := range node.Scenarios {
		if s := this.scenarios[id]; match(s) {
			return s, node
		}
	}

	for _, id := range node.Children {
		if c := this.nodes[id]; match(c) {
			return c, node
		}
	}

	for _, id := range node.Children {
		if e, owner := this.find(this.nodes[id], match); e != nil {
			return e, owner
		}
	}

	return nil, nil
}

// FindByName returns the element with the given name and its owning node.
func (this *Topology) FindByName(root NodeID, name string) (Element, *MiddlewareNode) {
	return this.FindFunc(root, func(e Element) bool {
		return ElementName(e) == name
	})
}

// FindBy returns the first element whose key equals the key of target. Keys
// must be comparable.
func (this *Topology) FindBy(root NodeID, target Element, key func(Element) interface{}) (Element, *MiddlewareNode) {
	want := key(target)

	return this.FindFunc(root, func(e Element) bool {
		return key(e) == want
	})
}
