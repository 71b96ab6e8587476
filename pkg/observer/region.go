package observer

import (
	"context"
	"fmt"
	"image"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
)

// Region triggers when the content of a screen region changes between two polls.
//
// The first poll only seeds the baseline and reports false. Every later poll captures a fresh
// frame, counts changed pixels against the baseline and triggers when the count exceeds
// Threshold. The baseline is then replaced whether or not the trigger fired, so comparisons
// are always against the most recent frame.
//
// A Region is owned by a single transition and polled from a single goroutine.
type Region struct {
	Area      domain.Region
	Threshold int // Changed pixels needed to trigger (strictly greater than)
	Cutoff    int // Per-pixel intensity difference for a pixel to count as changed

	capturer ports.ScreenCapturer
	last     image.Image
}

// NewRegion creates a region-change observer with the default cutoff.
func NewRegion(capturer ports.ScreenCapturer, area domain.Region, threshold int) *Region {
	return &Region{
		Area:      area.Normalize(),
		Threshold: threshold,
		Cutoff:    domain.DefaultChangeCutoff,
		capturer:  capturer,
	}
}

// IsTriggered implements ports.Observer.
func (r *Region) IsTriggered(ctx context.Context) (bool, error) {
	current, err := r.capturer.Capture(ctx, r.Area)
	if err != nil {
		return false, fmt.Errorf("capture %s: %w", r.Area, err)
	}

	if r.last == nil {
		r.last = current
		return false, nil
	}

	changed := ChangedPixels(r.last, current, r.Cutoff)
	r.last = current
	return changed > r.Threshold, nil
}

// Seeded reports whether a baseline frame has been captured.
func (r *Region) Seeded() bool {
	return r.last != nil
}

func (r *Region) String() string {
	return fmt.Sprintf("region%s>%d", r.Area, r.Threshold)
}
