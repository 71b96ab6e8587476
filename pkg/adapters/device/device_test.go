package device_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/macrograph/pkg/adapters/device"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.Pointer        = (*device.Recorder)(nil)
	_ ports.Keyboard       = (*device.Recorder)(nil)
	_ ports.Pointer        = (*device.Logger)(nil)
	_ ports.Keyboard       = (*device.Logger)(nil)
	_ ports.ScreenCapturer = (*device.Frames)(nil)
)

func frame(c color.Gray) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 20, 10))
	for i := range img.Pix {
		img.Pix[i] = c.Y
	}
	return img
}

func TestRecorder(t *testing.T) {
	r := device.NewRecorder()
	ctx := context.Background()

	require.NoError(t, r.Click(ctx, 1, 2, "left"))
	require.NoError(t, r.Press(ctx, "enter"))
	require.NoError(t, r.Type(ctx, "hi"))

	assert.Equal(t, []device.Event{
		{Kind: device.EventClick, X: 1, Y: 2, Button: "left"},
		{Kind: device.EventPress, Key: "enter"},
		{Kind: device.EventType, Text: "hi"},
	}, r.Events())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := device.NewLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, l.Click(context.Background(), 5, 6, "right"))
	assert.Contains(t, buf.String(), "dry-run click")
	assert.Contains(t, buf.String(), "button=right")
}

func TestFrames_ReplayAndCrop(t *testing.T) {
	f := device.NewFrames(frame(color.Gray{Y: 0}), frame(color.Gray{Y: 200}))
	ctx := context.Background()
	region := domain.Region{X1: 15, Y1: 8, X2: 5, Y2: 2}

	first, err := f.Capture(ctx, region)
	require.NoError(t, err)
	assert.Equal(t, 10, first.Bounds().Dx())
	assert.Equal(t, 6, first.Bounds().Dy())

	second, err := f.Capture(ctx, region)
	require.NoError(t, err)
	third, err := f.Capture(ctx, region)
	require.NoError(t, err)
	assert.Equal(t, second.At(5, 2), third.At(5, 2), "last frame repeats")

	whole, err := f.Capture(ctx, domain.Region{})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), whole.Bounds())

	_, err = f.Capture(ctx, domain.Region{X1: 0, Y1: 0, X2: 50, Y2: 50})
	assert.Error(t, err)
}

func TestFrames_Empty(t *testing.T) {
	_, err := device.NewFrames().Capture(context.Background(), domain.Region{})
	assert.ErrorIs(t, err, device.ErrNoFrames)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for name, c := range map[string]uint8{"002.png": 255, "001.png": 0} {
		fh, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(fh, frame(color.Gray{Y: c})))
		require.NoError(t, fh.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	f, err := device.LoadDir(dir)
	require.NoError(t, err)

	first, err := f.Capture(context.Background(), domain.Region{})
	require.NoError(t, err)
	r, _, _, _ := first.At(0, 0).RGBA()
	assert.Zero(t, r, "001.png comes first")

	_, err = device.LoadDir(t.TempDir())
	assert.ErrorIs(t, err, device.ErrNoFrames)
}
