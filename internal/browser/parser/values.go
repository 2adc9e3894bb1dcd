// internal/browser/parser/values.go
package parser

import (
	"fmt"
	"strconv"
)

// Value is a typed declaration value. The concrete type is one of
// Color, Length or Other.
type Value interface {
	fmt.Stringer
	isValue()
}

// Color is an RGBA color with every component in the range [0, 1].
type Color struct {
	R, G, B, A float64
}

// Length is a numeric magnitude paired with a CSS unit.
type Length struct {
	Magnitude float64
	Unit      Unit
}

// Other carries any value that is not recognized as a color or a length.
type Other string

func (Color) isValue()  {}
func (Length) isValue() {}
func (Other) isValue()  {}

// String renders the components, e.g. "r: 1 g: 0 b: 0 a: 1".
func (c Color) String() string {
	return fmt.Sprintf("r: %s g: %s b: %s a: %s", formatFloat(c.R), formatFloat(c.G), formatFloat(c.B), formatFloat(c.A))
}

// String renders the magnitude only. The unit is dropped, so the projection is lossy.
func (l Length) String() string {
	return formatFloat(l.Magnitude)
}

func (o Other) String() string {
	return strconv.Quote(string(o))
}

// Unit is the closed set of CSS length and percentage units.
type Unit int

const (
	UnitEm Unit = iota
	UnitEx
	UnitCh
	UnitRem
	UnitVh
	UnitVw
	UnitVmin
	UnitVmax
	UnitPx
	UnitMm
	UnitQ
	UnitCm
	UnitIn
	UnitPt
	UnitPc
	UnitPercent
)

// unitSuffixes maps the textual suffix of a length to its unit.
var unitSuffixes = map[string]Unit{
	"em":   UnitEm,
	"ex":   UnitEx,
	"ch":   UnitCh,
	"rem":  UnitRem,
	"vh":   UnitVh,
	"vw":   UnitVw,
	"vmin": UnitVmin,
	"vmax": UnitVmax,
	"px":   UnitPx,
	"mm":   UnitMm,
	"q":    UnitQ,
	"cm":   UnitCm,
	"in":   UnitIn,
	"pt":   UnitPt,
	"pc":   UnitPc,
	"%":    UnitPercent,
}

var unitNames = [...]string{
	UnitEm:      "em",
	UnitEx:      "ex",
	UnitCh:      "ch",
	UnitRem:     "rem",
	UnitVh:      "vh",
	UnitVw:      "vw",
	UnitVmin:    "vmin",
	UnitVmax:    "vmax",
	UnitPx:      "px",
	UnitMm:      "mm",
	UnitQ:       "q",
	UnitCm:      "cm",
	UnitIn:      "in",
	UnitPt:      "pt",
	UnitPc:      "pc",
	UnitPercent: "%",
}

// String returns the CSS suffix of the unit.
func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
