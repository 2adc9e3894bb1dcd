// internal/browser/style/style.go
package style

import (
	"sort"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/cssbox/internal/browser/dom"
	"github.com/xkilldash9x/cssbox/internal/browser/parser"
)

// DefaultUserAgentCSS gives structural elements their block display and
// hides the elements that never render.
const DefaultUserAgentCSS = `
/* Block-level elements */
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, form,
header, footer, section, article, nav, main, aside, blockquote, pre {
    display: block;
}

body {
    margin-top: 8px;
    margin-right: 8px;
    margin-bottom: 8px;
    margin-left: 8px;
}

/* Form controls flow inline but keep a box */
input, button, textarea, select, img {
    display: inline-block;
}

head, title, meta, link, script, style, template, noscript {
    display: none;
}
`

// -- Style Engine --

// Engine matches stylesheets against a document and produces the styled
// tree consumed by layout. Inheritance and !important are not supported.
type Engine struct {
	userAgentSheets []parser.StyleSheet
	authorSheets    []parser.StyleSheet
	logger          *zap.Logger
}

// NewEngine creates a styling engine preloaded with the user agent sheet.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("style")
	uaSheet := parser.NewParser(DefaultUserAgentCSS, logger).Parse()

	return &Engine{
		userAgentSheets: []parser.StyleSheet{uaSheet},
		logger:          logger,
	}
}

// AddAuthorSheet adds a stylesheet provided by the document author.
func (se *Engine) AddAuthorSheet(sheet parser.StyleSheet) {
	se.authorSheets = append(se.authorSheets, sheet)
}

// -- Canonical Data Structures --

// StyledNode is a document node paired with its specified declarations.
type StyledNode struct {
	Node      *html.Node
	Specified map[string]parser.Value
	Children  []*StyledNode
}

// Value returns the specified value of a property.
func (sn *StyledNode) Value(property string) (parser.Value, bool) {
	if sn == nil {
		return nil, false
	}
	v, ok := sn.Specified[property]
	return v, ok
}

// NumOr returns the numeric value of a property: the magnitude of a
// Length, or an Other that parses as a number. Anything else yields fallback.
func (sn *StyledNode) NumOr(property string, fallback float64) float64 {
	v, ok := sn.Value(property)
	if !ok {
		return fallback
	}
	switch val := v.(type) {
	case parser.Length:
		return val.Magnitude
	case parser.Other:
		if f, err := strconv.ParseFloat(string(val), 64); err == nil {
			return f
		}
	}
	return fallback
}

// Lookup returns the textual form of an untyped (Other) property value.
func (sn *StyledNode) Lookup(property, fallback string) string {
	v, _ := sn.Value(property)
	if other, ok := v.(parser.Other); ok {
		return string(other)
	}
	return fallback
}

// DisplayType is the display mode that drives box generation.
type DisplayType int

const (
	DisplayInline DisplayType = iota
	DisplayBlock
	DisplayInlineBlock
	DisplayNone
)

func (d DisplayType) String() string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayInlineBlock:
		return "inline-block"
	case DisplayNone:
		return "none"
	default:
		return "inline"
	}
}

// Display maps the display property onto DisplayType. Text nodes are always
// inline; a missing or unknown value means inline.
func (sn *StyledNode) Display() DisplayType {
	if sn.Node != nil && sn.Node.Type == html.TextNode {
		return DisplayInline
	}
	switch sn.Lookup("display", "inline") {
	case "block":
		return DisplayBlock
	case "inline-block":
		return DisplayInlineBlock
	case "none":
		return DisplayNone
	default:
		return DisplayInline
	}
}

// -- Style Tree Construction --

// BuildTree styles node and its descendants. Comments and whitespace-only
// text produce no styled node; for those BuildTree returns nil.
func (se *Engine) BuildTree(node *html.Node) *StyledNode {
	count := 0
	root := se.buildTreeRecursive(node, &count)
	se.logger.Debug("Built style tree", zap.Int("nodes", count))
	return root
}

func (se *Engine) buildTreeRecursive(node *html.Node, count *int) *StyledNode {
	if node == nil || node.Type == html.CommentNode || node.Type == html.DoctypeNode || dom.IsWhitespaceText(node) {
		return nil
	}

	specified := make(map[string]parser.Value)
	if node.Type == html.ElementNode {
		specified = se.CalculateStyles(node)
	}

	styledNode := &StyledNode{
		Node:      node,
		Specified: specified,
	}
	*count++

	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if childStyled := se.buildTreeRecursive(c, count); childStyled != nil {
			styledNode.Children = append(styledNode.Children, childStyled)
		}
	}
	return styledNode
}

// StyleOrigin orders declarations from different sources.
type StyleOrigin int

const (
	OriginUserAgent StyleOrigin = iota
	OriginAuthor
	OriginInline
)

// DeclarationWithContext carries what the cascade needs to order a declaration.
type DeclarationWithContext struct {
	Declaration parser.Declaration
	Specificity struct{ A, B, C int }
	Origin      StyleOrigin
	Order       int
}

// CalculateStyles collects the declarations of every matching rule and
// resolves conflicts by origin, then specificity, then source order.
func (se *Engine) CalculateStyles(node *html.Node) map[string]parser.Value {
	var declarations []DeclarationWithContext
	order := 0

	processSheets := func(sheets []parser.StyleSheet, origin StyleOrigin) {
		for _, sheet := range sheets {
			for _, rule := range sheet.Rules {
				a, b, c, ok := matchRule(node, rule)
				if !ok {
					continue
				}
				for _, decl := range rule.Declarations {
					declarations = append(declarations, DeclarationWithContext{
						Declaration: decl,
						Specificity: struct{ A, B, C int }{a, b, c},
						Origin:      origin,
						Order:       order,
					})
					order++
				}
			}
		}
	}

	processSheets(se.userAgentSheets, OriginUserAgent)
	processSheets(se.authorSheets, OriginAuthor)

	if styleAttr, ok := dom.Attr(node, "style"); ok {
		for _, decl := range parser.ParseInlineDeclarations(styleAttr, se.logger) {
			declarations = append(declarations, DeclarationWithContext{
				Declaration: decl,
				Specificity: struct{ A, B, C int }{1, 0, 0},
				Origin:      OriginInline,
				Order:       order,
			})
			order++
		}
	}

	sort.SliceStable(declarations, func(i, j int) bool {
		d1, d2 := declarations[i], declarations[j]
		if d1.Origin != d2.Origin {
			return d1.Origin < d2.Origin
		}
		s1, s2 := d1.Specificity, d2.Specificity
		if s1.A != s2.A {
			return s1.A < s2.A
		}
		if s1.B != s2.B {
			return s1.B < s2.B
		}
		if s1.C != s2.C {
			return s1.C < s2.C
		}
		return d1.Order < d2.Order
	})

	styles := make(map[string]parser.Value)
	for _, declCtx := range declarations {
		styles[declCtx.Declaration.Property] = declCtx.Declaration.Value
	}
	return styles
}

// matchRule reports whether any selector of the rule matches node and
// returns the highest specificity among the matching selectors.
func matchRule(node *html.Node, rule parser.Rule) (a, b, c int, ok bool) {
	for _, sel := range rule.Selectors {
		if !matchesSelector(node, sel) {
			continue
		}
		sa, sb, sc := sel.Specificity()
		if !ok || sa > a || (sa == a && (sb > b || (sb == b && sc > c))) {
			a, b, c = sa, sb, sc
		}
		ok = true
	}
	return a, b, c, ok
}

// matchesSelector requires every simple selector to match the element.
// Recorded combinators are not applied.
func matchesSelector(node *html.Node, sel parser.Selector) bool {
	if sel.IsEmpty() {
		return false
	}
	for _, simple := range sel.Simple {
		if !matchesSimple(node, simple) {
			return false
		}
	}
	return true
}

func matchesSimple(node *html.Node, selector parser.SimpleSelector) bool {
	if dom.KindOf(node) != dom.KindElement {
		return false
	}
	if selector.TagName != "" && dom.TagName(node) != selector.TagName {
		return false
	}
	if selector.ID != "" {
		if id, ok := dom.ID(node); !ok || id != selector.ID {
			return false
		}
	}
	if len(selector.Classes) > 0 {
		nodeClasses := dom.Classes(node)
		for _, requiredClass := range selector.Classes {
			if _, found := nodeClasses[requiredClass]; !found {
				return false
			}
		}
	}
	return true
}
