// Package jitter humanises effector timing and positions.
//
// Clicks landing on the exact same pixel at exactly regular intervals are easy to spot;
// Point and Delay add small uniform noise around the authored values.
package jitter

import (
	"math/rand/v2"
	"time"
)

const (
	// DefaultRadius is the maximum per-axis pixel offset applied by Point.
	DefaultRadius = 3

	// DefaultDelayVariation is the relative spread applied by Delay (5%).
	DefaultDelayVariation = 0.05
)

// Source produces random numbers. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

var global Source = globalSource{}

type globalSource struct{}

func (globalSource) IntN(n int) int   { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// Point offsets (x, y) by a uniform integer in [-radius, radius] on each axis.
// A non-positive radius returns the point unchanged.
func Point(x, y, radius int) (int, int) {
	return PointFrom(global, x, y, radius)
}

// PointFrom is Point with an explicit random source.
func PointFrom(src Source, x, y, radius int) (int, int) {
	if radius <= 0 {
		return x, y
	}
	span := 2*radius + 1
	return x + src.IntN(span) - radius, y + src.IntN(span) - radius
}

// Delay returns a duration drawn uniformly from [base-base*variation, base+base*variation].
func Delay(base time.Duration, variation float64) time.Duration {
	return DelayFrom(global, base, variation)
}

// DelayFrom is Delay with an explicit random source.
func DelayFrom(src Source, base time.Duration, variation float64) time.Duration {
	if base <= 0 || variation <= 0 {
		return base
	}
	delta := float64(base) * variation
	d := float64(base) - delta + src.Float64()*2*delta
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}

// NewSource returns a deterministic source, for tests and reproducible replays.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
