// internal/reporting/document.go
package reporting

import (
	"fmt"

	"github.com/xkilldash9x/cssbox/internal/browser/dom"
	"github.com/xkilldash9x/cssbox/internal/browser/layout"
	"github.com/xkilldash9x/cssbox/internal/browser/parser"
)

// Document is the serialized form shared by the structured reporters.
type Document struct {
	Stylesheets []SheetReport    `json:"stylesheets,omitempty" yaml:"stylesheets,omitempty"`
	Layouts     []LayoutReport   `json:"layouts,omitempty" yaml:"layouts,omitempty"`
	Geometries  []GeometryReport `json:"geometries,omitempty" yaml:"geometries,omitempty"`
}

type SheetReport struct {
	Source string       `json:"source" yaml:"source"`
	Rules  []RuleReport `json:"rules" yaml:"rules"`
}

type RuleReport struct {
	Selectors    []SelectorReport    `json:"selectors" yaml:"selectors"`
	Declarations []DeclarationReport `json:"declarations" yaml:"declarations"`
}

type SelectorReport struct {
	Text string `json:"text" yaml:"text"`
	// Specificity is the "a,b,c" triple.
	Specificity string `json:"specificity" yaml:"specificity"`
	Combinators string `json:"combinators,omitempty" yaml:"combinators,omitempty"`
}

type DeclarationReport struct {
	Property string `json:"property" yaml:"property"`
	Kind     string `json:"kind" yaml:"kind"`
	Value    string `json:"value" yaml:"value"`
	Unit     string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

type LayoutReport struct {
	Source string     `json:"source" yaml:"source"`
	Root   *BoxReport `json:"root" yaml:"root"`
}

type BoxReport struct {
	Node     string      `json:"node" yaml:"node"`
	BoxType  string      `json:"boxType" yaml:"boxType"`
	XPath    string      `json:"xpath,omitempty" yaml:"xpath,omitempty"`
	Content  RectReport  `json:"content" yaml:"content"`
	Padding  EdgesReport `json:"padding" yaml:"padding"`
	Border   EdgesReport `json:"border" yaml:"border"`
	Margin   EdgesReport `json:"margin" yaml:"margin"`
	Children []BoxReport `json:"children,omitempty" yaml:"children,omitempty"`
}

type GeometryReport struct {
	Source   string    `json:"source" yaml:"source"`
	Query    string    `json:"query" yaml:"query"`
	XPath    string    `json:"xpath" yaml:"xpath"`
	TagName  string    `json:"tagName" yaml:"tagName"`
	BoxType  string    `json:"boxType" yaml:"boxType"`
	X        float64   `json:"x" yaml:"x"`
	Y        float64   `json:"y" yaml:"y"`
	Width    float64   `json:"width" yaml:"width"`
	Height   float64   `json:"height" yaml:"height"`
	Vertices []float64 `json:"vertices" yaml:"vertices,flow"`
}

type RectReport struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

type EdgesReport struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// NewSheetReport projects a parsed sheet.
func NewSheetReport(source string, sheet parser.StyleSheet) SheetReport {
	report := SheetReport{Source: source, Rules: make([]RuleReport, 0, len(sheet.Rules))}
	for _, rule := range sheet.Rules {
		rr := RuleReport{
			Selectors:    make([]SelectorReport, 0, len(rule.Selectors)),
			Declarations: make([]DeclarationReport, 0, len(rule.Declarations)),
		}
		for _, sel := range rule.Selectors {
			a, b, c := sel.Specificity()
			rr.Selectors = append(rr.Selectors, SelectorReport{
				Text:        sel.String(),
				Specificity: fmt.Sprintf("%d,%d,%d", a, b, c),
				Combinators: string(sel.Combinators),
			})
		}
		for _, decl := range rule.Declarations {
			rr.Declarations = append(rr.Declarations, newDeclarationReport(decl))
		}
		report.Rules = append(report.Rules, rr)
	}
	return report
}

func newDeclarationReport(decl parser.Declaration) DeclarationReport {
	dr := DeclarationReport{Property: decl.Property}
	switch v := decl.Value.(type) {
	case parser.Color:
		dr.Kind = "color"
		dr.Value = v.String()
	case parser.Length:
		dr.Kind = "length"
		dr.Value = v.String()
		dr.Unit = v.Unit.String()
	case parser.Other:
		dr.Kind = "other"
		dr.Value = string(v)
	}
	return dr
}

// NewLayoutReport projects a box tree. A nil root yields a report without
// a root box.
func NewLayoutReport(source string, root *layout.LayoutBox) LayoutReport {
	report := LayoutReport{Source: source}
	if root != nil {
		br := newBoxReport(root)
		report.Root = &br
	}
	return report
}

func newBoxReport(b *layout.LayoutBox) BoxReport {
	d := b.Dimensions
	br := BoxReport{
		BoxType: b.BoxType.String(),
		Content: RectReport{X: d.Content.X, Y: d.Content.Y, Width: d.Content.Width, Height: d.Content.Height},
		Padding: edgesReport(d.Padding),
		Border:  edgesReport(d.Border),
		Margin:  edgesReport(d.Margin),
	}
	if b.StyledNode != nil && b.StyledNode.Node != nil {
		br.Node = dom.Describe(b.StyledNode.Node)
		br.XPath = dom.GenerateUniqueXPath(b.StyledNode.Node)
	}
	for _, child := range b.Children {
		br.Children = append(br.Children, newBoxReport(child))
	}
	return br
}

func edgesReport(e layout.Edges) EdgesReport {
	return EdgesReport{Top: e.Top, Right: e.Right, Bottom: e.Bottom, Left: e.Left}
}

func NewGeometryReport(source, query string, geom *layout.ElementGeometry) GeometryReport {
	return GeometryReport{
		Source:   source,
		Query:    query,
		XPath:    geom.XPath,
		TagName:  geom.TagName,
		BoxType:  geom.BoxType,
		X:        geom.X,
		Y:        geom.Y,
		Width:    geom.Width,
		Height:   geom.Height,
		Vertices: geom.Vertices,
	}
}
