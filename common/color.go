package common

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an sRGB color with components in [0, 1].
type RGB [3]float32

// ParseHexColor parses a CSS-style "#rrggbb" (or "#rgb") string.
//
// Parameters:
//   - s: the hex color string
//
// Returns:
//   - RGB: the parsed color
//   - error: error if the string is not a valid hex color
func ParseHexColor(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// ParsePalette parses every entry of hexes with ParseHexColor, stopping at the first failure.
//
// Parameters:
//   - hexes: the hex color strings
//
// Returns:
//   - []RGB: the parsed colors in input order
//   - error: error naming the first invalid entry
func ParsePalette(hexes []string) ([]RGB, error) {
	out := make([]RGB, 0, len(hexes))
	for i, h := range hexes {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Hex formats the color back to "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Clamped().Hex()
}
