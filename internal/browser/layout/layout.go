// internal/browser/layout/layout.go
package layout

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/cssbox/internal/browser/dom"
	"github.com/xkilldash9x/cssbox/internal/browser/parser"
	"github.com/xkilldash9x/cssbox/internal/browser/style"
)

// UnsupportedUnitError reports a width declared in a unit that cannot be
// resolved to pixels without font or viewport metrics.
type UnsupportedUnitError struct {
	Property string
	Unit     parser.Unit
	Node     string
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("unsupported unit %q for %s on %s", e.Unit.String(), e.Property, e.Node)
}

// -- Engine Core --

type Engine struct {
	logger      *zap.Logger
	strictUnits bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for layout diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStrictUnits makes an unsupported width unit abort the pass instead of
// falling back to an auto width.
func WithStrictUnits(strict bool) Option {
	return func(e *Engine) {
		e.strictUnits = strict
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("layout")
	return e
}

// LayoutTree builds the box tree for root and lays it out inside the
// containing block. The containing block's content height is reset to 0
// first. In strict mode an unsupported width unit fails the whole pass and
// no tree is returned.
func (e *Engine) LayoutTree(root *style.StyledNode, containingBlock Dimensions) (*LayoutBox, error) {
	if root == nil {
		return nil, errors.New("styled root is nil")
	}

	containingBlock.Content.Height = 0
	box := e.BuildLayoutTree(root)
	if err := e.layout(box, containingBlock); err != nil {
		return nil, err
	}
	return box, nil
}

// -- Layout Tree Construction --

// BuildLayoutTree mirrors the styled tree. Nodes with display none are
// dropped along with their subtree; a root with display none becomes an
// anonymous box.
func (e *Engine) BuildLayoutTree(styledNode *style.StyledNode) *LayoutBox {
	if styledNode.Display() == style.DisplayNone {
		return NewLayoutBox(AnonymousBox, styledNode)
	}
	return e.buildBox(styledNode)
}

func (e *Engine) buildBox(styledNode *style.StyledNode) *LayoutBox {
	var root *LayoutBox
	switch styledNode.Display() {
	case style.DisplayBlock:
		root = NewLayoutBox(BlockBox, styledNode)
	case style.DisplayInlineBlock:
		root = NewLayoutBox(InlineBlockBox, styledNode)
	case style.DisplayInline:
		root = NewLayoutBox(InlineBox, styledNode)
	case style.DisplayNone:
		return nil
	}

	for _, childStyled := range styledNode.Children {
		if childBox := e.buildBox(childStyled); childBox != nil {
			root.Children = append(root.Children, childBox)
		}
	}
	return root
}

// -- Layout Algorithms --

// flowContext is the transient cursor of the children flow. Y is the
// parent's accumulated content height; LineHeight is the tallest margin box
// of the current inline-block run.
type flowContext struct {
	X, Y       float64
	LineHeight float64
}

// open reports whether an inline-block run is in progress.
func (c *flowContext) open() bool {
	return c.X > 0 || c.LineHeight > 0
}

// flush closes the current run: its height is added to the parent and the
// cursor returns to the start of a new line.
func (c *flowContext) flush(parent *Dimensions) {
	parent.Content.Height += c.LineHeight
	c.X = 0
	c.Y = parent.Content.Height
	c.LineHeight = 0
}

func (e *Engine) layout(b *LayoutBox, containingBlock Dimensions) error {
	return e.layoutAt(b, containingBlock, flowContext{})
}

// layoutAt lays out b from scratch, so a wrapped inline-block can be laid out
// a second time.
func (e *Engine) layoutAt(b *LayoutBox, containingBlock Dimensions, cursor flowContext) error {
	switch b.BoxType {
	case BlockBox, InlineBox:
		return e.layoutBlock(b, containingBlock)
	case InlineBlockBox:
		return e.layoutInlineBlock(b, containingBlock, cursor)
	case AnonymousBox:
		return nil
	default:
		return fmt.Errorf("unknown box type %d", b.BoxType)
	}
}

func (e *Engine) layoutBlock(b *LayoutBox, containingBlock Dimensions) error {
	b.Dimensions = Dimensions{}
	if err := e.calculateBlockWidth(b, containingBlock); err != nil {
		return err
	}
	e.calculateBlockPosition(b, containingBlock)
	if err := e.layoutChildren(b); err != nil {
		return err
	}
	e.calculateHeight(b)
	return nil
}

func (e *Engine) layoutInlineBlock(b *LayoutBox, containingBlock Dimensions, cursor flowContext) error {
	b.Dimensions = Dimensions{}
	if err := e.calculateInlineBlockWidth(b, containingBlock); err != nil {
		return err
	}
	e.calculateInlineBlockPosition(b, containingBlock, cursor)
	if err := e.layoutChildren(b); err != nil {
		return err
	}
	e.calculateHeight(b)
	return nil
}

// layoutChildren flows the children of b. Block children stack vertically;
// inline-block children are placed left to right and wrap onto a new line
// when they overflow the content width. Inline children take no space.
func (e *Engine) layoutChildren(b *LayoutBox) error {
	d := &b.Dimensions
	cursor := flowContext{Y: d.Content.Height}

	for _, child := range b.Children {
		if child.BoxType == BlockBox && cursor.open() {
			cursor.flush(d)
		}

		if err := e.layoutAt(child, *d, cursor); err != nil {
			return err
		}

		switch child.BoxType {
		case BlockBox:
			d.Content.Height += child.Dimensions.MarginBox().Height
			cursor.Y = d.Content.Height
		case InlineBlockBox:
			mb := child.Dimensions.MarginBox()
			if cursor.X > 0 && cursor.X+mb.Width > d.Content.Width {
				// Wrap and retry: the child moves to a fresh line.
				cursor.flush(d)
				if err := e.layoutAt(child, *d, cursor); err != nil {
					return err
				}
				mb = child.Dimensions.MarginBox()
			}
			cursor.X += mb.Width
			if mb.Height > cursor.LineHeight {
				cursor.LineHeight = mb.Height
			}
		}
	}

	if cursor.open() {
		cursor.flush(d)
	}
	return nil
}

// calculateBlockWidth resolves content width and horizontal margins with the
// auto-margin distribution rules for block boxes.
func (e *Engine) calculateBlockWidth(b *LayoutBox, containingBlock Dimensions) error {
	sn := b.StyledNode
	d := &b.Dimensions

	width, err := e.resolveWidth(b, containingBlock)
	if err != nil {
		return err
	}

	_, hasMarginLeft := sn.Value("margin-left")
	_, hasMarginRight := sn.Value("margin-right")
	marginLeft := sn.NumOr("margin-left", 0)
	marginRight := sn.NumOr("margin-right", 0)

	d.Border.Left = sn.NumOr("border-left-width", 0)
	d.Border.Right = sn.NumOr("border-right-width", 0)
	d.Padding.Left = sn.NumOr("padding-left", 0)
	d.Padding.Right = sn.NumOr("padding-right", 0)

	total := width + marginLeft + marginRight +
		d.Border.Left + d.Border.Right + d.Padding.Left + d.Padding.Right
	underflow := containingBlock.Content.Width - total

	switch {
	case width == 0:
		if underflow >= 0 {
			width = underflow
		} else {
			width = 0
			marginRight += underflow
		}
	case !hasMarginLeft && hasMarginRight:
		marginLeft = underflow
	case hasMarginLeft && !hasMarginRight:
		marginRight = underflow
	case !hasMarginLeft && !hasMarginRight:
		marginLeft = underflow / 2
		marginRight = underflow / 2
	default:
		// Over-constrained: the right margin absorbs the difference.
		marginRight += underflow
	}

	d.Content.Width = width
	d.Margin.Left = marginLeft
	d.Margin.Right = marginRight
	return nil
}

// calculateInlineBlockWidth uses the declared values verbatim.
func (e *Engine) calculateInlineBlockWidth(b *LayoutBox, containingBlock Dimensions) error {
	sn := b.StyledNode
	d := &b.Dimensions

	width, err := e.resolveWidth(b, containingBlock)
	if err != nil {
		return err
	}
	d.Content.Width = width
	d.Margin.Left = sn.NumOr("margin-left", 0)
	d.Margin.Right = sn.NumOr("margin-right", 0)
	d.Border.Left = sn.NumOr("border-left-width", 0)
	d.Border.Right = sn.NumOr("border-right-width", 0)
	d.Padding.Left = sn.NumOr("padding-left", 0)
	d.Padding.Right = sn.NumOr("padding-right", 0)
	return nil
}

// resolveWidth reads width as an absolute pixel value. Px is taken as is and
// percent resolves against the containing block's content width; anything
// that is not a length is auto (0). Other units yield an
// UnsupportedUnitError, which is fatal only in strict mode.
func (e *Engine) resolveWidth(b *LayoutBox, containingBlock Dimensions) (float64, error) {
	v, ok := b.StyledNode.Value("width")
	if !ok {
		return 0, nil
	}
	length, ok := v.(parser.Length)
	if !ok {
		return 0, nil
	}

	switch length.Unit {
	case parser.UnitPx:
		return length.Magnitude, nil
	case parser.UnitPercent:
		return containingBlock.Content.Width * length.Magnitude / 100, nil
	}

	unsupported := &UnsupportedUnitError{
		Property: "width",
		Unit:     length.Unit,
		Node:     dom.Describe(b.StyledNode.Node),
	}
	if e.strictUnits {
		return 0, unsupported
	}
	e.logger.Warn("Treating width as auto", zap.Error(unsupported))
	return 0, nil
}

func (e *Engine) calculateBlockPosition(b *LayoutBox, containingBlock Dimensions) {
	e.calculateVerticalEdges(b)
	d := &b.Dimensions
	d.Content.X = containingBlock.Content.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = containingBlock.Content.Y + containingBlock.Content.Height +
		d.Margin.Top + d.Border.Top + d.Padding.Top
}

func (e *Engine) calculateInlineBlockPosition(b *LayoutBox, containingBlock Dimensions, cursor flowContext) {
	e.calculateVerticalEdges(b)
	d := &b.Dimensions
	d.Content.X = containingBlock.Content.X + cursor.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = containingBlock.Content.Y + cursor.Y + d.Margin.Top + d.Border.Top + d.Padding.Top
}

func (e *Engine) calculateVerticalEdges(b *LayoutBox) {
	sn := b.StyledNode
	d := &b.Dimensions
	d.Margin.Top = sn.NumOr("margin-top", 0)
	d.Margin.Bottom = sn.NumOr("margin-bottom", 0)
	d.Border.Top = sn.NumOr("border-top-width", 0)
	d.Border.Bottom = sn.NumOr("border-bottom-width", 0)
	d.Padding.Top = sn.NumOr("padding-top", 0)
	d.Padding.Bottom = sn.NumOr("padding-bottom", 0)
}

// calculateHeight applies an explicit height. The unit is ignored and the
// magnitude is used as pixels; otherwise the accumulated height stays.
func (e *Engine) calculateHeight(b *LayoutBox) {
	if v, ok := b.StyledNode.Value("height"); ok {
		if length, ok := v.(parser.Length); ok {
			b.Dimensions.Content.Height = length.Magnitude
		}
	}
}
