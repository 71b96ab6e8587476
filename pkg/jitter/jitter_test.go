package jitter_test

import (
	"testing"
	"time"

	"github.com/aretw0/macrograph/pkg/jitter"
	"github.com/stretchr/testify/assert"
)

func TestPoint_StaysWithinRadius(t *testing.T) {
	src := jitter.NewSource(42)
	for i := 0; i < 500; i++ {
		x, y := jitter.PointFrom(src, 100, 200, jitter.DefaultRadius)
		assert.InDelta(t, 100, x, jitter.DefaultRadius)
		assert.InDelta(t, 200, y, jitter.DefaultRadius)
	}
}

func TestPoint_ZeroRadius(t *testing.T) {
	x, y := jitter.Point(10, 20, 0)
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
}

func TestDelay_Bounds(t *testing.T) {
	src := jitter.NewSource(7)
	base := time.Second
	for i := 0; i < 500; i++ {
		d := jitter.DelayFrom(src, base, jitter.DefaultDelayVariation)
		assert.GreaterOrEqual(t, d, 950*time.Millisecond)
		assert.LessOrEqual(t, d, 1050*time.Millisecond)
	}
}

func TestDelay_NoVariation(t *testing.T) {
	assert.Equal(t, time.Second, jitter.Delay(time.Second, 0))
	assert.Equal(t, time.Duration(0), jitter.Delay(0, 0.5))
}

func TestNewSource_Deterministic(t *testing.T) {
	a, b := jitter.NewSource(1), jitter.NewSource(1)
	for i := 0; i < 10; i++ {
		ax, ay := jitter.PointFrom(a, 0, 0, 5)
		bx, by := jitter.PointFrom(b, 0, 0, 5)
		assert.Equal(t, ax, bx)
		assert.Equal(t, ay, by)
	}
}
