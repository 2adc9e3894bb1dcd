// internal/browser/parser/length.go
package parser

import "strconv"

// TranslateLength splits a value into a leading run of digits (the
// magnitude) and everything after the first non-digit (the unit suffix).
//
// A magnitude that does not parse becomes 0 and an unknown or empty suffix
// becomes px. Because the split is strictly left to right, "10px5" yields
// magnitude 10 with suffix "px5", which falls back to px; "1.5em" yields
// magnitude 1 with suffix ".5em", also px.
func TranslateLength(value string) Length {
	split := 0
	for split < len(value) && isDigit(value[split]) {
		split++
	}

	magnitude, err := strconv.ParseFloat(value[:split], 64)
	if err != nil {
		magnitude = 0
	}

	unit, ok := unitSuffixes[value[split:]]
	if !ok {
		unit = UnitPx
	}
	return Length{Magnitude: magnitude, Unit: unit}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// valueKind selects how a declaration value is typed.
type valueKind int

const (
	kindOther valueKind = iota
	kindColor
	kindLength
)

var propertyKinds = map[string]valueKind{
	"background-color": kindColor,
	"border-color":     kindColor,
	"color":            kindColor,

	"margin-top":          kindLength,
	"margin-right":        kindLength,
	"margin-bottom":       kindLength,
	"margin-left":         kindLength,
	"padding-top":         kindLength,
	"padding-right":       kindLength,
	"padding-bottom":      kindLength,
	"padding-left":        kindLength,
	"border-top-width":    kindLength,
	"border-right-width":  kindLength,
	"border-bottom-width": kindLength,
	"border-left-width":   kindLength,
	"height":              kindLength,
	"width":               kindLength,
}

// TypeValue types a lowercase value according to the property it belongs to.
func TypeValue(property, value string) Value {
	switch propertyKinds[property] {
	case kindColor:
		return TranslateColor(value)
	case kindLength:
		return TranslateLength(value)
	default:
		return Other(value)
	}
}
