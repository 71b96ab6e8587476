package domain

// CapabilitySpec describes an observer or action to be bound by a registry.
// Type selects the factory, Args carries its parameters (decoded by the factory).
type CapabilitySpec struct {
	Type string         `json:"type" yaml:"type" mapstructure:"type"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
}

// Clone returns a deep copy of the spec.
// Nested maps and slices of the shapes produced by yaml, json and the dsl are copied;
// any other value is shared.
func (c CapabilitySpec) Clone() CapabilitySpec {
	out := CapabilitySpec{Type: c.Type}
	if c.Args != nil {
		out.Args = cloneMap(c.Args)
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case []int:
		return append([]int(nil), v...)
	case []float64:
		return append([]float64(nil), v...)
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
