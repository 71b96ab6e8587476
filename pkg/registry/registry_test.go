package registry_test

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/aretw0/macrograph/pkg/action"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/observer"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/aretw0/macrograph/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDevice struct{}

func (nopDevice) Capture(context.Context, domain.Region) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}
func (nopDevice) Click(context.Context, int, int, string) error { return nil }
func (nopDevice) Press(context.Context, string) error           { return nil }
func (nopDevice) Type(context.Context, string) error            { return nil }

func builtin() *registry.Registry {
	d := nopDevice{}
	return registry.Builtin(registry.Devices{Screen: d, Pointer: d, Keyboard: d})
}

func TestBuiltin_Types(t *testing.T) {
	r := builtin()
	assert.Equal(t, []string{"never", "region"}, r.ObserverTypes())
	assert.Equal(t, []string{"click", "key", "type", "wait"}, r.ActionTypes())
}

func TestBindObserver_Region(t *testing.T) {
	obs, err := builtin().BindObserver(domain.CapabilitySpec{
		Type: registry.TypeRegion,
		Args: map[string]any{"region": []any{100, 50, 0, 0}, "threshold": "25"},
	})
	require.NoError(t, err)

	region, ok := obs.(*observer.Region)
	require.True(t, ok, "expected *observer.Region, got %T", obs)
	assert.Equal(t, domain.Region{X1: 0, Y1: 0, X2: 100, Y2: 50}, region.Area)
	assert.Equal(t, 25, region.Threshold)
	assert.Equal(t, domain.DefaultChangeCutoff, region.Cutoff)
}

func TestBindObserver_RegionDefaults(t *testing.T) {
	obs, err := builtin().BindObserver(domain.CapabilitySpec{
		Type: registry.TypeRegion,
		Args: map[string]any{"region": []int{0, 0, 10, 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChangeThreshold, obs.(*observer.Region).Threshold)
}

func TestBindObserver_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec domain.CapabilitySpec
		want error
	}{
		{"unknown type", domain.CapabilitySpec{Type: "heat"}, domain.ErrUnknownCapability},
		{"bad region", domain.CapabilitySpec{Type: "region", Args: map[string]any{"region": []int{1, 2}}}, nil},
		{"empty region", domain.CapabilitySpec{Type: "region", Args: map[string]any{"region": []int{5, 5, 5, 9}}}, nil},
		{"unknown arg", domain.CapabilitySpec{Type: "region", Args: map[string]any{"region": []int{0, 0, 1, 1}, "colour": "red"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := builtin().BindObserver(tt.spec)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestBindObserver_MissingScreen(t *testing.T) {
	r := registry.Builtin(registry.Devices{})
	_, err := r.BindObserver(domain.CapabilitySpec{Type: "region", Args: map[string]any{"region": []int{0, 0, 1, 1}}})
	assert.ErrorContains(t, err, "no screen capturer")
}

func TestBindAction_Builtins(t *testing.T) {
	r := builtin()

	click, err := r.BindAction(domain.CapabilitySpec{Type: "click", Args: map[string]any{"x": 10.0, "y": "20", "button": "right", "jitter": 2}})
	require.NoError(t, err)
	c := click.(*action.Click)
	assert.Equal(t, 10, c.X)
	assert.Equal(t, 20, c.Y)
	assert.Equal(t, "right", c.Button)
	assert.Equal(t, 2, c.Jitter)

	wait, err := r.BindAction(domain.CapabilitySpec{Type: "wait", Args: map[string]any{"duration": "250ms", "variation": 0.1}})
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, wait.(*action.Wait).Duration)

	key, err := r.BindAction(domain.CapabilitySpec{Type: "key", Args: map[string]any{"key": "enter"}})
	require.NoError(t, err)
	assert.Equal(t, "enter", key.(*action.KeyPress).Key)

	typed, err := r.BindAction(domain.CapabilitySpec{Type: "type", Args: map[string]any{"text": "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hi", typed.(*action.TypeText).Text)
}

func TestBindAction_Errors(t *testing.T) {
	r := builtin()
	_, err := r.BindAction(domain.CapabilitySpec{Type: "click", Args: map[string]any{"button": "thumb"}})
	assert.ErrorContains(t, err, "unknown button")

	_, err = r.BindAction(domain.CapabilitySpec{Type: "key"})
	assert.ErrorContains(t, err, "key is required")

	_, err = r.BindAction(domain.CapabilitySpec{Type: "wait", Args: map[string]any{"variation": 2}})
	assert.Error(t, err)

	_, err = r.BindAction(domain.CapabilitySpec{Type: "scroll"})
	assert.ErrorIs(t, err, domain.ErrUnknownCapability)
}

func TestRegister_Custom(t *testing.T) {
	r := registry.NewRegistry()
	called := false
	r.RegisterAction("beep", func(args map[string]any) (ports.Action, error) {
		return action.Func(func(context.Context) error { called = true; return nil }), nil
	})

	act, err := r.BindAction(domain.CapabilitySpec{Type: "beep"})
	require.NoError(t, err)
	require.NoError(t, act.Execute(context.Background()))
	assert.True(t, called)
}
