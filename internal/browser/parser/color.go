// internal/browser/parser/color.go
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// FallbackColor is used for any color value that cannot be understood.
var FallbackColor = Color{R: 1, G: 1, B: 1, A: 1}

// TranslateColor maps a color value to RGBA, resolving unrecognized input
// to FallbackColor.
func TranslateColor(value string) Color {
	if c, ok := ParseColor(value); ok {
		return c
	}
	return FallbackColor
}

// ParseColor understands keywords, hex notation and rgb()/rgba().
func ParseColor(value string) (Color, bool) {
	value = strings.TrimSpace(strings.ToLower(value))

	if value == "transparent" {
		return Color{}, true
	}
	if named, ok := colornames.Map[value]; ok {
		return Color{
			R: float64(named.R) / 255,
			G: float64(named.G) / 255,
			B: float64(named.B) / 255,
			A: float64(named.A) / 255,
		}, true
	}
	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}
	if strings.HasPrefix(value, "rgb") {
		return parseRGBColor(value)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	hex = strings.TrimPrefix(hex, "#")
	for i := 0; i < len(hex); i++ {
		if _, ok := hexDigit(hex[i]); !ok {
			return Color{}, false
		}
	}

	var r, g, b, a uint8 = 0, 0, 0, 255
	switch len(hex) {
	case 3, 4:
		r = nibble(hex[0]) * 17
		g = nibble(hex[1]) * 17
		b = nibble(hex[2]) * 17
		if len(hex) == 4 {
			a = nibble(hex[3]) * 17
		}
	case 6, 8:
		r = nibble(hex[0])<<4 | nibble(hex[1])
		g = nibble(hex[2])<<4 | nibble(hex[3])
		b = nibble(hex[4])<<4 | nibble(hex[5])
		if len(hex) == 8 {
			a = nibble(hex[6])<<4 | nibble(hex[7])
		}
	default:
		return Color{}, false
	}
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func nibble(c byte) uint8 {
	v, _ := hexDigit(c)
	return v
}

var rgbRegex = regexp.MustCompile(`^rgba?\((.*?)\)$`)

func parseRGBColor(value string) (Color, bool) {
	matches := rgbRegex.FindStringSubmatch(value)
	if len(matches) != 2 {
		return Color{}, false
	}

	parts := strings.FieldsFunc(matches[1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(parts) < 3 || len(parts) > 4 {
		return Color{}, false
	}

	var c Color
	var ok bool
	if c.R, ok = parseChannel(parts[0]); !ok {
		return Color{}, false
	}
	if c.G, ok = parseChannel(parts[1]); !ok {
		return Color{}, false
	}
	if c.B, ok = parseChannel(parts[2]); !ok {
		return Color{}, false
	}
	c.A = 1
	if len(parts) == 4 {
		if c.A, ok = parseAlpha(parts[3]); !ok {
			return Color{}, false
		}
	}
	return c, true
}

// parseChannel reads 0-255 or a percentage and normalizes it to [0, 1].
func parseChannel(s string) (float64, bool) {
	if pct, isPct := strings.CutSuffix(s, "%"); isPct {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, false
		}
		return clamp(v/100, 0, 1), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp(v/255, 0, 1), true
}

func parseAlpha(s string) (float64, bool) {
	if pct, isPct := strings.CutSuffix(s, "%"); isPct {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, false
		}
		return clamp(v/100, 0, 1), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp(v, 0, 1), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
