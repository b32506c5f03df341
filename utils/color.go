package utils

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// FallbackBackground is used when a background hex string cannot be parsed.
var FallbackBackground = color.RGBA{R: 26, G: 26, B: 26, A: 255}

// ParseHex parses "#rrggbb", "rrggbb" or the "#rgb" shorthand into an
// opaque color.
func ParseHex(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, false
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}

// ParseHexOr parses s and falls back to def on failure.
func ParseHexOr(s string, def color.RGBA) color.RGBA {
	if c, ok := ParseHex(s); ok {
		return c
	}
	return def
}

// Hex formats an opaque color as "#rrggbb".
func Hex(c color.Color) string {
	col, _ := colorful.MakeColor(c)
	return col.Clamped().Hex()
}
