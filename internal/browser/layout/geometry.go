// internal/browser/layout/geometry.go
package layout

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/cssbox/internal/browser/dom"
)

// ElementGeometry describes the border box of a rendered element.
type ElementGeometry struct {
	XPath   string  `json:"xpath" yaml:"xpath"`
	TagName string  `json:"tagName" yaml:"tagName"`
	BoxType string  `json:"boxType" yaml:"boxType"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`

	// Vertices lists the corners clockwise from the top left as x,y pairs.
	Vertices []float64 `json:"vertices" yaml:"vertices"`
}

// -- Public Interface for Geometry Retrieval --

// GetElementGeometry finds the element matching an XPath expression in the
// document behind the layout tree and returns its border box.
func (e *Engine) GetElementGeometry(layoutRoot *LayoutBox, selector string) (*ElementGeometry, error) {
	if layoutRoot == nil {
		return nil, fmt.Errorf("layout tree is nil")
	}
	domRoot := findDOMRoot(layoutRoot)
	if domRoot == nil {
		return nil, fmt.Errorf("could not find root DOM node")
	}
	targetNode, err := htmlquery.Query(domRoot, selector)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath selector '%s': %w", selector, err)
	}
	if targetNode == nil {
		return nil, fmt.Errorf("element not found matching selector '%s'", selector)
	}
	box := findLayoutBoxForNode(layoutRoot, targetNode)
	if box == nil || box.BoxType == AnonymousBox {
		return nil, fmt.Errorf("element '%s' found in DOM but not rendered (display: none)", selector)
	}
	return box.ToElementGeometry(), nil
}

// ToElementGeometry projects the box's border box.
func (b *LayoutBox) ToElementGeometry() *ElementGeometry {
	rect := b.Dimensions.BorderBox()
	x, y, width, height := rect.X, rect.Y, rect.Width, rect.Height

	geom := &ElementGeometry{
		BoxType:  b.BoxType.String(),
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		Vertices: []float64{x, y, x + width, y, x + width, y + height, x, y + height},
	}
	if b.StyledNode != nil {
		geom.XPath = dom.GenerateUniqueXPath(b.StyledNode.Node)
		geom.TagName = dom.TagName(b.StyledNode.Node)
	}
	return geom
}

func findDOMRoot(box *LayoutBox) *html.Node {
	if box == nil || box.StyledNode == nil || box.StyledNode.Node == nil {
		return nil
	}
	rootNode := box.StyledNode.Node
	for rootNode.Parent != nil {
		rootNode = rootNode.Parent
	}
	return rootNode
}

func findLayoutBoxForNode(root *LayoutBox, target *html.Node) *LayoutBox {
	if root == nil {
		return nil
	}
	if root.StyledNode != nil && root.StyledNode.Node == target {
		return root
	}
	for _, child := range root.Children {
		if found := findLayoutBoxForNode(child, target); found != nil {
			return found
		}
	}
	return nil
}
