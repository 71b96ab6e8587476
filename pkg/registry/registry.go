package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// ObserverFactory builds an observer from the args of a capability spec.
type ObserverFactory func(args map[string]any) (ports.Observer, error)

// ActionFactory builds an action from the args of a capability spec.
type ActionFactory func(args map[string]any) (ports.Action, error)

// Registry manages the available capability kinds.
// The compiler binds every CapabilitySpec of the raw graph through it, so new sensor or
// effector kinds only need a Register call.
type Registry struct {
	mu        sync.RWMutex
	observers map[string]ObserverFactory
	actions   map[string]ActionFactory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		observers: make(map[string]ObserverFactory),
		actions:   make(map[string]ActionFactory),
	}
}

// RegisterObserver adds an observer kind.
// If a kind with the same name exists, it is overwritten.
func (r *Registry) RegisterObserver(name string, fn ObserverFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers[name] = fn
}

// RegisterAction adds an action kind.
// If a kind with the same name exists, it is overwritten.
func (r *Registry) RegisterAction(name string, fn ActionFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
}

// BindObserver builds the observer described by spec.
func (r *Registry) BindObserver(spec domain.CapabilitySpec) (ports.Observer, error) {
	r.mu.RLock()
	fn, ok := r.observers[spec.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: observer %q", domain.ErrUnknownCapability, spec.Type)
	}
	obs, err := fn(spec.Args)
	if err != nil {
		return nil, fmt.Errorf("observer %q: %w", spec.Type, err)
	}
	return obs, nil
}

// BindAction builds the action described by spec.
func (r *Registry) BindAction(spec domain.CapabilitySpec) (ports.Action, error) {
	r.mu.RLock()
	fn, ok := r.actions[spec.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: action %q", domain.ErrUnknownCapability, spec.Type)
	}
	act, err := fn(spec.Args)
	if err != nil {
		return nil, fmt.Errorf("action %q: %w", spec.Type, err)
	}
	return act, nil
}

// ObserverTypes lists registered observer kinds, sorted.
func (r *Registry) ObserverTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.observers)
}

// ActionTypes lists registered action kinds, sorted.
func (r *Registry) ActionTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.actions)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode maps capability args onto a typed config struct.
// Input is weakly typed so that YAML and JSON numbers and strings both decode, and
// duration strings ("250ms") decode into time.Duration fields.
func Decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid args: %w", err)
	}
	return nil
}
