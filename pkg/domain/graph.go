package domain

// Graph is the raw, editor-owned node/edge graph.
// Nodes are kept in their designated iteration order (creation order in the editor),
// which is used for start-node selection.
type Graph struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Start optionally names the observer node the automaton starts from.
	// When empty, the first observer node in Nodes order is used.
	Start string `json:"start,omitempty" yaml:"start,omitempty"`

	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Edge is a directed link between two raw graph nodes.
// It records adjacency only; the order of edges leaving a node is their insertion order.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Outgoing returns the targets of edges leaving id, in insertion order.
func (g *Graph) Outgoing(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// Incoming returns the sources of edges entering id, in insertion order.
func (g *Graph) Incoming(id string) []string {
	var in []string
	for _, e := range g.Edges {
		if e.To == id {
			in = append(in, e.From)
		}
	}
	return in
}

// Observers returns the observer nodes in iteration order.
func (g *Graph) Observers() []Node {
	var obs []Node
	for _, n := range g.Nodes {
		if n.IsObserver() {
			obs = append(obs, n)
		}
	}
	return obs
}

// Clone returns a deep copy of the graph.
// Loaders hand out clones so that a compile never races with the editor.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	out := &Graph{
		Name:  g.Name,
		Start: g.Start,
		Nodes: make([]Node, len(g.Nodes)),
		Edges: append([]Edge(nil), g.Edges...),
	}
	for i, n := range g.Nodes {
		cp := n
		if n.Observer != nil {
			obs := n.Observer.Clone()
			cp.Observer = &obs
		}
		if n.Actions != nil {
			cp.Actions = make([]CapabilitySpec, len(n.Actions))
			for j, a := range n.Actions {
				cp.Actions[j] = a.Clone()
			}
		}
		out.Nodes[i] = cp
	}
	return out
}
