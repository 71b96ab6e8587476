package observer_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/observer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frames is a ScreenCapturer replaying a fixed list of frames.
type frames struct {
	list  []image.Image
	calls int
	err   error
}

func (f *frames) Capture(ctx context.Context, r domain.Region) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	img := f.list[f.calls]
	f.calls++
	return img, nil
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// withChanged returns a copy of base where the first n pixels are painted with c.
func withChanged(base *image.RGBA, n int, c color.Color) *image.RGBA {
	out := image.NewRGBA(base.Bounds())
	copy(out.Pix, base.Pix)
	w := base.Bounds().Dx()
	for i := 0; i < n; i++ {
		out.Set(i%w, i/w, c)
	}
	return out
}

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func TestRegion_FirstPollSeeds(t *testing.T) {
	base := solid(10, 10, black)
	src := &frames{list: []image.Image{withChanged(base, 100, white)}}
	obs := observer.NewRegion(src, domain.Region{X1: 0, Y1: 0, X2: 10, Y2: 10}, 10)

	triggered, err := obs.IsTriggered(context.Background())
	require.NoError(t, err)
	assert.False(t, triggered, "first poll must never trigger")
	assert.True(t, obs.Seeded())
}

func TestRegion_ThresholdIsStrict(t *testing.T) {
	base := solid(10, 10, black)
	src := &frames{list: []image.Image{
		base,
		withChanged(base, 10, white), // exactly threshold: no trigger
		withChanged(base, 11, white), // compared against previous frame: 1 pixel changed
		base,                         // 11 pixels back to black: trigger
	}}
	obs := observer.NewRegion(src, domain.Region{X2: 10, Y2: 10}, 10)
	ctx := context.Background()

	var got []bool
	for range src.list {
		triggered, err := obs.IsTriggered(ctx)
		require.NoError(t, err)
		got = append(got, triggered)
	}
	assert.Equal(t, []bool{false, false, false, true}, got)
}

func TestRegion_BaselineAdvancesOnTrigger(t *testing.T) {
	base := solid(4, 4, black)
	changed := solid(4, 4, white)
	src := &frames{list: []image.Image{base, changed, changed}}
	obs := observer.NewRegion(src, domain.Region{X2: 4, Y2: 4}, 1)
	ctx := context.Background()

	_, _ = obs.IsTriggered(ctx)
	fired, err := obs.IsTriggered(ctx)
	require.NoError(t, err)
	assert.True(t, fired)

	fired, err = obs.IsTriggered(ctx)
	require.NoError(t, err)
	assert.False(t, fired, "unchanged frame after trigger must not re-trigger")
}

func TestRegion_CaptureError(t *testing.T) {
	boom := errors.New("display unavailable")
	obs := observer.NewRegion(&frames{err: boom}, domain.Region{X2: 1, Y2: 1}, 0)

	_, err := obs.IsTriggered(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, obs.Seeded())
}

func TestChangedPixels_Cutoff(t *testing.T) {
	a := solid(2, 2, color.RGBA{100, 100, 100, 255})
	b := solid(2, 2, color.RGBA{120, 100, 100, 255}) // diff 20: not above cutoff
	c := solid(2, 2, color.RGBA{100, 100, 121, 255}) // diff 21 on blue

	assert.Equal(t, 0, observer.ChangedPixels(a, b, domain.DefaultChangeCutoff))
	assert.Equal(t, 4, observer.ChangedPixels(a, c, domain.DefaultChangeCutoff))
}

func TestChangedPixels_SizeMismatch(t *testing.T) {
	a := solid(2, 2, black)
	b := solid(3, 3, black)
	assert.Equal(t, 9, observer.ChangedPixels(a, b, 20))
}

func TestNever(t *testing.T) {
	obs := observer.Never()
	for i := 0; i < 3; i++ {
		triggered, err := obs.IsTriggered(context.Background())
		require.NoError(t, err)
		assert.False(t, triggered)
	}
	assert.True(t, observer.IsNever(obs))
	assert.False(t, observer.IsNever(observer.Func(func(context.Context) (bool, error) { return true, nil })))
}
