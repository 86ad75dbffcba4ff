package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGB color with components in [0, 1].
type Color struct {
	R, G, B float32
}

// Hex builds a Color from a 0xRRGGBB value.
func Hex(v uint32) Color {
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}
}

// Lerp interpolates each channel linearly toward to.
func (c Color) Lerp(to Color, t float32) Color {
	return Color{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
	}
}

// Array returns the color as an RGB array for GL uniforms.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Hex(uint32(v)), nil
}

// FormatHex formats c as "#rrggbb", clamping each channel.
func FormatHex(c Color) string {
	b := func(v float32) uint32 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint32(v*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", b(c.R), b(c.G), b(c.B))
}
