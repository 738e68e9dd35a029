// Package color validates hex colors and derives badge styles for tags.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FallbackBadgeHex is used for badges whose tag has no usable color.
const FallbackBadgeHex = "#9ca3af"

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as lowercase #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance returns the relative luminance in [0,1] (Rec. 709 weights).
func (c RGB) Luminance() float64 {
	return 0.2126*float64(c.R)/255 + 0.7152*float64(c.G)/255 + 0.0722*float64(c.B)/255
}

// Parse reads #rgb, #rgba, #rrggbb or #rrggbbaa (the leading # is optional).
// Alpha is accepted and ignored.
func Parse(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 4:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6, 8:
		h = h[:6]
	default:
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Normalize returns s as lowercase #rrggbb.
func Normalize(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Valid reports whether s parses as a hex color.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// OrDefault normalises s, falling back to def when s is nil or blank.
func OrDefault(s *string, def string) (string, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def, nil
	}
	return Normalize(*s)
}

func mix(c RGB, target float64, weight float64) RGB {
	f := func(v uint8) uint8 {
		return uint8(math.Min(255, math.Round(float64(v)*(1-weight)+target*weight)))
	}
	return RGB{R: f(c.R), G: f(c.G), B: f(c.B)}
}
