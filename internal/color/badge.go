package color

import "fmt"

// Badge holds the shades used to draw a tag badge.
type Badge struct {
	Light    string `json:"light"`     // 40% white mix
	Base     string `json:"base"`      // the tag color itself
	Dark     string `json:"dark"`      // 25% black mix
	Text     string `json:"text"`      // readable text color on Base
	DarkText string `json:"dark_text"` // text color for dark themes
}

// BadgeFor derives badge shades from a tag color. Unparseable colors fall
// back to FallbackBadgeHex.
func BadgeFor(hex string) Badge {
	c, err := Parse(hex)
	if err != nil {
		c, _ = Parse(FallbackBadgeHex)
	}

	dark := RGB{R: uint8(float64(c.R) * 0.75), G: uint8(float64(c.G) * 0.75), B: uint8(float64(c.B) * 0.75)}

	text := "#ffffff"
	if c.Luminance() > 0.6 {
		text = "#1f1300"
	}

	return Badge{
		Light:    mix(c, 255, 0.4).Hex(),
		Base:     c.Hex(),
		Dark:     dark.Hex(),
		Text:     text,
		DarkText: "#ffffff",
	}
}

// Style renders the badge as inline CSS custom properties.
func (b Badge) Style() string {
	return fmt.Sprintf(
		"--color-400: %s; --color-500: %s; --color-600: %s; --text: %s; --dark-text: %s; background-color: var(--color-500);",
		b.Light, b.Base, b.Dark, b.Text, b.DarkText,
	)
}

// BadgeStyle is shorthand for BadgeFor(hex).Style().
func BadgeStyle(hex string) string {
	return BadgeFor(hex).Style()
}
