// internal/browser/dom/xpath.go
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// GenerateUniqueXPath builds an XPath expression that selects exactly node.
// The nearest ancestor carrying an id anchors the path; without one the path
// is absolute from the document root. Text nodes get a trailing text() step.
func GenerateUniqueXPath(node *html.Node) string {
	if node == nil {
		return ""
	}

	var path []string
	n := node
	if KindOf(n) == KindText {
		path = append(path, fmt.Sprintf("text()[%d]", siblingIndex(n, func(s *html.Node) bool {
			return s.Type == html.TextNode
		})))
		n = n.Parent
	}

	for ; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		tag := TagName(n)
		if tag == "" {
			continue
		}

		if id, ok := ID(n); ok {
			path = append(path, idAnchor(id))
			break
		}

		index := siblingIndex(n, func(s *html.Node) bool {
			return TagName(s) == tag
		})
		path = append(path, fmt.Sprintf("%s[%d]", tag, index))
	}

	if len(path) == 0 {
		return "/"
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	xpath := strings.Join(path, "/")
	if !strings.HasPrefix(xpath, "//*[@id=") {
		xpath = "/" + xpath
	}
	return xpath
}

// siblingIndex is the 1-based position of n among the preceding siblings
// accepted by same.
func siblingIndex(n *html.Node, same func(*html.Node) bool) int {
	index := 1
	for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if same(prev) {
			index++
		}
	}
	return index
}

func idAnchor(id string) string {
	if strings.Contains(id, "'") {
		return fmt.Sprintf(`//*[@id="%s"]`, id)
	}
	return fmt.Sprintf(`//*[@id='%s']`, id)
}
