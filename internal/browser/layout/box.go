// internal/browser/layout/box.go
package layout

import (
	"github.com/xkilldash9x/cssbox/internal/browser/style"
)

// -- Core Structures: Box Model and Dimensions --

// Dimensions defines the geometry of a layout box.
type Dimensions struct {
	// Content area (x, y) relative to the initial containing block.
	Content Rect

	Padding Edges
	Border  Edges
	Margin  Edges
}

// MarginBox returns the rectangle enclosing the margin area.
func (d Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// BorderBox returns the rectangle enclosing the border area.
func (d Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// PaddingBox returns the rectangle enclosing the padding area.
func (d Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

type Rect struct {
	X, Y, Width, Height float64
}

// ExpandedBy returns a new rectangle expanded by the edge sizes. Negative
// edges shrink it.
func (r Rect) ExpandedBy(e Edges) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

type Edges struct {
	Top, Right, Bottom, Left float64
}

// -- Layout Tree (Box Tree) --

// BoxType defines the type of box generated by a node.
type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	InlineBlockBox
	// AnonymousBox is generated for a root whose display is none. It holds
	// no children and is never sized.
	AnonymousBox
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	case InlineBlockBox:
		return "inline-block"
	default:
		return "anonymous"
	}
}

// LayoutBox is a node in the layout tree. StyledNode is a reference into
// the styled tree the box was built from and must not outlive it.
type LayoutBox struct {
	Dimensions Dimensions
	BoxType    BoxType
	StyledNode *style.StyledNode
	Children   []*LayoutBox
}

func NewLayoutBox(boxType BoxType, styledNode *style.StyledNode) *LayoutBox {
	return &LayoutBox{
		BoxType:    boxType,
		StyledNode: styledNode,
	}
}

// Walk visits the box and its descendants in pre-order, passing the depth.
func (b *LayoutBox) Walk(fn func(box *LayoutBox, depth int)) {
	b.walk(fn, 0)
}

func (b *LayoutBox) walk(fn func(box *LayoutBox, depth int), depth int) {
	if b == nil {
		return
	}
	fn(b, depth)
	for _, child := range b.Children {
		child.walk(fn, depth+1)
	}
}
