package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/palette"
	"github.com/san-kum/gravsim/internal/vector"
	"github.com/san-kum/gravsim/internal/world"
)

const background = "#0a0a0a"

// frame maps world coordinates into a width x height image with 5% padding,
// keeping the aspect ratio. World y grows downwards, as in SVG.
type frame struct {
	lo     vector.Vec2
	scale  float64
	offset vector.Vec2
}

func newFrame(lo, hi vector.Vec2, width, height int) frame {
	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	w, h := float64(width)*0.9, float64(height)*0.9
	scale := w / rangeX
	if s := h / rangeY; s < scale {
		scale = s
	}

	return frame{
		lo:    lo,
		scale: scale,
		offset: vector.New(
			(float64(width)-rangeX*scale)/2,
			(float64(height)-rangeY*scale)/2,
		),
	}
}

func (f frame) point(p vector.Vec2) vector.Vec2 {
	return p.Sub(f.lo).Scale(f.scale).Add(f.offset)
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

func polyline(sb *strings.Builder, f frame, points []vector.Vec2, stroke string) {
	if len(points) < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
	for i, p := range points {
		q := f.point(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", q.X, q.Y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", q.X, q.Y))
		}
	}
	sb.WriteString("\"/>\n")
}

// PathsToSVG draws every body's recorded path and then its disc at the
// final position, each in the body's colour.
func PathsToSVG(s world.Snapshot, width, height int) string {
	var sb strings.Builder
	header(&sb, width, height)

	lo, hi, ok := s.Bounds()
	if !ok {
		sb.WriteString("</svg>")
		return sb.String()
	}
	f := newFrame(lo, hi, width, height)

	for _, b := range s.Bodies {
		polyline(&sb, f, b.Path, palette.Hex(b.Color))
	}
	for _, b := range s.Bodies {
		c := f.point(b.Position)
		r := b.Radius * f.scale
		if r < 1 {
			r = 1
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s</title></circle>
`, c.X, c.Y, r, palette.Hex(b.Color), b.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws a single trajectory scaled to fill the image.
func TrajectoryToSVG(points []vector.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	lo, hi := points[0], points[0]
	for _, p := range points {
		lo = vector.New(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = vector.New(max(hi.X, p.X), max(hi.Y, p.Y))
	}

	var sb strings.Builder
	header(&sb, width, height)
	polyline(&sb, newFrame(lo, hi, width, height), points, palette.Hex(strokeColor))
	sb.WriteString("</svg>")
	return sb.String()
}
