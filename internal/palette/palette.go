// Package palette resolves body colour names to concrete colours.
//
// Names are the SVG 1.1 colour keywords ("blue", "crimson") or "#rrggbb"
// hex strings. Anything else falls back to [Fallback].
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Fallback is used for empty or unknown names.
var Fallback = colornames.White

// Lookup returns the colour for name.
func Lookup(name string) color.RGBA {
	c, ok := Parse(name)
	if !ok {
		return Fallback
	}
	return c
}

// Parse reports whether name is a known keyword or a valid hex colour.
func Parse(name string) (color.RGBA, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := colornames.Map[name]; ok {
		return c, true
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		var r, g, b uint8
		if _, err := fmt.Sscanf(name, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
		}
	}
	return color.RGBA{}, false
}

// Hex returns the "#rrggbb" form of name's colour.
func Hex(name string) string {
	c := Lookup(name)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
