package ports

import (
	"context"
	"image"

	"github.com/aretw0/macrograph/pkg/domain"
)

// ScreenCapturer grabs the pixels of a screen region.
// Screen capture itself is an external collaborator; this is the only contract observers depend on.
type ScreenCapturer interface {
	Capture(ctx context.Context, region domain.Region) (image.Image, error)
}

// Pointer dispatches mouse input.
type Pointer interface {
	Click(ctx context.Context, x, y int, button string) error
}

// Keyboard dispatches key input.
type Keyboard interface {
	Press(ctx context.Context, key string) error
	Type(ctx context.Context, text string) error
}
