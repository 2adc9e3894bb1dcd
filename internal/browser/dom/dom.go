// internal/browser/dom/dom.go
package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Kind classifies a document node for styling and layout.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindElement
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindElement:
		return "element"
	case KindComment:
		return "comment"
	default:
		return "other"
	}
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html document: %w", err)
	}
	return doc, nil
}

// RootElement returns the first element child of the document node, which
// for parsed HTML is always <html>. Non-document nodes are returned as is.
func RootElement(doc *html.Node) *html.Node {
	if doc == nil || doc.Type != html.DocumentNode {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// KindOf maps the html node type onto Kind.
func KindOf(n *html.Node) Kind {
	if n == nil {
		return KindOther
	}
	switch n.Type {
	case html.TextNode:
		return KindText
	case html.ElementNode:
		return KindElement
	case html.CommentNode:
		return KindComment
	default:
		return KindOther
	}
}

// Attr returns the value of the named attribute and whether it was present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

// ID returns the element's id attribute. An empty id counts as absent.
func ID(n *html.Node) (string, bool) {
	if KindOf(n) != KindElement {
		return "", false
	}
	id, ok := Attr(n, "id")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Classes returns the set of whitespace-separated names in the class attribute.
func Classes(n *html.Node) map[string]struct{} {
	set := make(map[string]struct{})
	if KindOf(n) != KindElement {
		return set
	}
	if cls, ok := Attr(n, "class"); ok {
		for _, c := range strings.Fields(cls) {
			set[c] = struct{}{}
		}
	}
	return set
}

// TagName returns the lowercase tag of an element and "" for anything else.
func TagName(n *html.Node) string {
	if KindOf(n) != KindElement {
		return ""
	}
	return strings.ToLower(n.Data)
}

// IsWhitespaceText reports whether n is a text node holding only whitespace.
func IsWhitespaceText(n *html.Node) bool {
	return KindOf(n) == KindText && strings.TrimSpace(n.Data) == ""
}

// Describe renders a short label for a node: tag#id.class for elements
// (classes sorted), a quoted and truncated excerpt for text.
func Describe(n *html.Node) string {
	switch KindOf(n) {
	case KindElement:
		var sb strings.Builder
		sb.WriteString(TagName(n))
		if id, ok := ID(n); ok {
			sb.WriteString("#" + id)
		}
		classes := make([]string, 0)
		for c := range Classes(n) {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		for _, c := range classes {
			sb.WriteString("." + c)
		}
		return sb.String()
	case KindText:
		text := strings.Join(strings.Fields(n.Data), " ")
		if len(text) > 32 {
			text = text[:32] + "..."
		}
		return fmt.Sprintf("%q", text)
	case KindComment:
		return "<!---->"
	default:
		if n == nil {
			return ""
		}
		return "#document"
	}
}
