package gui

import (
	"math"

	"github.com/san-kum/gravsim/internal/vector"
	"github.com/san-kum/gravsim/internal/world"
)

// view is the world rectangle shown on screen. It grows to hold every
// position seen since the last reset.
type view struct {
	lo, hi vector.Vec2
	framed bool
}

func (v *view) fit(s world.Snapshot) {
	lo, hi, ok := s.Bounds()
	if !ok || !lo.IsFinite() || !hi.IsFinite() {
		return
	}
	pad := math.Max(hi.X-lo.X, hi.Y-lo.Y) * 0.05
	lo = lo.Sub(vector.New(pad, pad))
	hi = hi.Add(vector.New(pad, pad))

	if !v.framed {
		v.lo, v.hi, v.framed = lo, hi, true
		return
	}
	v.lo = vector.New(math.Min(v.lo.X, lo.X), math.Min(v.lo.Y, lo.Y))
	v.hi = vector.New(math.Max(v.hi.X, hi.X), math.Max(v.hi.Y, hi.Y))
}

// project maps p onto a w x h screen, centred with uniform scale.
func (v *view) project(p vector.Vec2, w, h int) (float32, float32, float64) {
	rangeX := math.Max(v.hi.X-v.lo.X, 1)
	rangeY := math.Max(v.hi.Y-v.lo.Y, 1)
	scale := math.Min(float64(w)/rangeX, float64(h)/rangeY)

	offX := (float64(w) - rangeX*scale) / 2
	offY := (float64(h) - rangeY*scale) / 2
	return float32((p.X-v.lo.X)*scale + offX), float32((p.Y-v.lo.Y)*scale + offY), scale
}
