package device

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/macrograph/pkg/domain"
)

// ErrNoFrames is returned by capturers with nothing to replay.
var ErrNoFrames = errors.New("no frames to replay")

// Frames implements ports.ScreenCapturer by replaying a fixed list of screen frames.
// Each Capture returns the next frame cropped to the region; the last frame repeats forever.
type Frames struct {
	mu     sync.Mutex
	frames []image.Image
	next   int
}

// NewFrames creates a capturer replaying frames in order.
func NewFrames(frames ...image.Image) *Frames {
	return &Frames{frames: frames}
}

// Capture returns the next frame cropped to region.
func (f *Frames) Capture(ctx context.Context, region domain.Region) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.frames) == 0 {
		return nil, ErrNoFrames
	}
	img := f.frames[f.next]
	if f.next < len(f.frames)-1 {
		f.next++
	}
	return crop(img, region)
}

// LoadDir reads every .png file of dir, in file name order, into a Frames capturer.
func LoadDir(dir string) (*Frames, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frames dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}

	frames := make([]image.Image, 0, len(names))
	for _, name := range names {
		img, err := decodePNG(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return NewFrames(frames...), nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// crop returns the part of img inside region. An empty region means the whole frame.
func crop(img image.Image, region domain.Region) (image.Image, error) {
	region = region.Normalize()
	if region.Empty() {
		return img, nil
	}
	rect := image.Rect(region.X1, region.Y1, region.X2, region.Y2)
	if !rect.In(img.Bounds()) {
		return nil, fmt.Errorf("region %s outside frame %v", region, img.Bounds())
	}
	si, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("frame type %T cannot be cropped", img)
	}
	return si.SubImage(rect), nil
}
