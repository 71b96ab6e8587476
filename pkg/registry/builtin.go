package registry

import (
	"errors"
	"time"

	"github.com/aretw0/macrograph/pkg/action"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/observer"
	"github.com/aretw0/macrograph/pkg/ports"
)

// Built-in capability type names.
const (
	TypeRegion = "region"
	TypeNever  = "never"
	TypeClick  = "click"
	TypeKey    = "key"
	TypeType   = "type"
	TypeWait   = "wait"
)

// Devices bundles the device collaborators the built-in capabilities dispatch to.
// A nil device makes the capabilities that need it fail to bind.
type Devices struct {
	Screen   ports.ScreenCapturer
	Pointer  ports.Pointer
	Keyboard ports.Keyboard
}

// RegionArgs configures a region-change observer.
type RegionArgs struct {
	Region    []int `mapstructure:"region"` // [x1, y1, x2, y2]
	Threshold *int  `mapstructure:"threshold"`
	Cutoff    int   `mapstructure:"cutoff"`
}

// ClickArgs configures a click action.
type ClickArgs struct {
	X      int    `mapstructure:"x"`
	Y      int    `mapstructure:"y"`
	Button string `mapstructure:"button"`
	Jitter int    `mapstructure:"jitter"`
}

// KeyArgs configures a key press action.
type KeyArgs struct {
	Key string `mapstructure:"key"`
}

// TypeArgs configures a typing action.
type TypeArgs struct {
	Text string `mapstructure:"text"`
}

// WaitArgs configures a wait action.
type WaitArgs struct {
	Duration  time.Duration `mapstructure:"duration"`
	Variation float64       `mapstructure:"variation"`
}

var (
	errNoScreen   = errors.New("no screen capturer configured")
	errNoPointer  = errors.New("no pointer device configured")
	errNoKeyboard = errors.New("no keyboard device configured")
)

// Builtin returns a registry with the standard observers and actions wired to dev.
func Builtin(dev Devices) *Registry {
	r := NewRegistry()

	r.RegisterObserver(TypeNever, func(map[string]any) (ports.Observer, error) {
		return observer.Never(), nil
	})

	r.RegisterObserver(TypeRegion, func(args map[string]any) (ports.Observer, error) {
		if dev.Screen == nil {
			return nil, errNoScreen
		}
		var cfg RegionArgs
		if err := Decode(args, &cfg); err != nil {
			return nil, err
		}
		area, err := domain.RegionFromSlice(cfg.Region)
		if err != nil {
			return nil, err
		}
		if area.Empty() {
			return nil, errors.New("region covers no pixels")
		}
		threshold := domain.DefaultChangeThreshold
		if cfg.Threshold != nil {
			threshold = *cfg.Threshold
		}
		obs := observer.NewRegion(dev.Screen, area, threshold)
		if cfg.Cutoff > 0 {
			obs.Cutoff = cfg.Cutoff
		}
		return obs, nil
	})

	r.RegisterAction(TypeClick, func(args map[string]any) (ports.Action, error) {
		if dev.Pointer == nil {
			return nil, errNoPointer
		}
		var cfg ClickArgs
		if err := Decode(args, &cfg); err != nil {
			return nil, err
		}
		switch cfg.Button {
		case "", action.ButtonLeft, action.ButtonRight, action.ButtonMiddle:
		default:
			return nil, errors.New("unknown button " + cfg.Button)
		}
		c := action.NewClick(dev.Pointer, cfg.X, cfg.Y, cfg.Button)
		c.Jitter = cfg.Jitter
		return c, nil
	})

	r.RegisterAction(TypeKey, func(args map[string]any) (ports.Action, error) {
		if dev.Keyboard == nil {
			return nil, errNoKeyboard
		}
		var cfg KeyArgs
		if err := Decode(args, &cfg); err != nil {
			return nil, err
		}
		if cfg.Key == "" {
			return nil, errors.New("key is required")
		}
		return action.NewKeyPress(dev.Keyboard, cfg.Key), nil
	})

	r.RegisterAction(TypeType, func(args map[string]any) (ports.Action, error) {
		if dev.Keyboard == nil {
			return nil, errNoKeyboard
		}
		var cfg TypeArgs
		if err := Decode(args, &cfg); err != nil {
			return nil, err
		}
		return action.NewTypeText(dev.Keyboard, cfg.Text), nil
	})

	r.RegisterAction(TypeWait, func(args map[string]any) (ports.Action, error) {
		var cfg WaitArgs
		if err := Decode(args, &cfg); err != nil {
			return nil, err
		}
		if cfg.Duration < 0 || cfg.Variation < 0 || cfg.Variation >= 1 {
			return nil, errors.New("duration must be >= 0 and variation in [0, 1)")
		}
		return &action.Wait{Duration: cfg.Duration, Variation: cfg.Variation}, nil
	})

	return r
}
