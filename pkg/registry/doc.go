/*
Package registry maps capability type names to factories.

The raw graph only carries CapabilitySpec values ({type, args}); the compiler asks a Registry to
bind each one to a concrete ports.Observer or ports.Action. Args are decoded with mapstructure,
so the same graph file works whether it was written as YAML or JSON.

	reg := registry.Builtin(registry.Devices{Screen: screen, Pointer: mouse, Keyboard: kbd})
	reg.RegisterAction("beep", func(args map[string]any) (ports.Action, error) { ... })
*/
package registry
