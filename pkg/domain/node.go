package domain

// NodeKind tags a raw graph node as a sensor or an effector.
type NodeKind string

const (
	// NodeObserver polls the environment for a trigger condition.
	NodeObserver NodeKind = "observer"
	// NodeAction holds an ordered list of literal actions.
	NodeAction NodeKind = "action"
)

// Valid reports whether k is a known node kind.
func (k NodeKind) Valid() bool {
	return k == NodeObserver || k == NodeAction
}

// Node is a single vertex of the raw graph as authored in the editor.
// It is plain data: the compiler binds capabilities from the specs it carries.
type Node struct {
	ID    string   `json:"id" yaml:"id"`
	Kind  NodeKind `json:"kind" yaml:"kind"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`

	// Observer is the trigger configured on an observer node.
	// A nil Observer means the user never defined one (e.g. no capture region was selected).
	Observer *CapabilitySpec `json:"observer,omitempty" yaml:"observer,omitempty"`

	// Actions is the ordered literal action list of an action node.
	Actions []CapabilitySpec `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// IsObserver reports whether the node is an observer node.
func (n Node) IsObserver() bool { return n.Kind == NodeObserver }

// IsAction reports whether the node is an action node.
func (n Node) IsAction() bool { return n.Kind == NodeAction }

// DisplayName returns the label, falling back to the ID.
func (n Node) DisplayName() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}
