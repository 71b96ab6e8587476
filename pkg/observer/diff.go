package observer

import "image"

// ChangedPixels counts the pixels of curr whose intensity differs from prev by more than cutoff.
// The per-pixel difference is the largest absolute difference over the R, G and B channels,
// on an 8-bit scale. Frames with different bounds are treated as entirely changed.
func ChangedPixels(prev, curr image.Image, cutoff int) int {
	pb, cb := prev.Bounds(), curr.Bounds()
	if pb.Dx() != cb.Dx() || pb.Dy() != cb.Dy() {
		return cb.Dx() * cb.Dy()
	}

	changed := 0
	for y := 0; y < cb.Dy(); y++ {
		for x := 0; x < cb.Dx(); x++ {
			pr, pg, pbl, _ := prev.At(pb.Min.X+x, pb.Min.Y+y).RGBA()
			cr, cg, cbl, _ := curr.At(cb.Min.X+x, cb.Min.Y+y).RGBA()
			d := maxInt(absDiff8(pr, cr), absDiff8(pg, cg), absDiff8(pbl, cbl))
			if d > cutoff {
				changed++
			}
		}
	}
	return changed
}

// absDiff8 compares two 16-bit colour channels on an 8-bit scale.
func absDiff8(a, b uint32) int {
	d := int(a>>8) - int(b>>8)
	if d < 0 {
		return -d
	}
	return d
}

func maxInt(v ...int) int {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
