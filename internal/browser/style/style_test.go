package style

import (
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/cssbox/internal/browser/dom"
	"github.com/xkilldash9x/cssbox/internal/browser/parser"
)

// Helper to set up the style engine with specific CSS.
func setupEngine(css string) *Engine {
	engine := NewEngine(nil)
	engine.AddAuthorSheet(parser.Parse(css))
	return engine
}

func parseHTMLAndFind(t *testing.T, input, xpath string) *html.Node {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(input))
	require.NoError(t, err)
	node := htmlquery.FindOne(doc, xpath)
	require.NotNil(t, node, "Test setup error: %s not found", xpath)
	return node
}

// Helper to find a StyledNode by ID in the built tree.
func findStyledNodeByID(n *StyledNode, id string) *StyledNode {
	if n == nil {
		return nil
	}
	if got, ok := dom.ID(n.Node); ok && got == id {
		return n
	}
	for _, child := range n.Children {
		if found := findStyledNodeByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func TestCascadeOrdering(t *testing.T) {
	target := parseHTMLAndFind(t, `<p id="target" class="highlight">Test</p>`, "//p")

	t.Run("Specificity beats source order", func(t *testing.T) {
		engine := setupEngine(`
			#target { width: 3px; }
			p.highlight { width: 2px; }
			p { width: 1px; }
		`)
		styles := engine.CalculateStyles(target)
		assert.Equal(t, parser.Length{Magnitude: 3, Unit: parser.UnitPx}, styles["width"])
	})

	t.Run("Later rule wins on equal specificity", func(t *testing.T) {
		engine := setupEngine(`p { height: 1px; } p { height: 2px; }`)
		styles := engine.CalculateStyles(target)
		assert.Equal(t, parser.Length{Magnitude: 2, Unit: parser.UnitPx}, styles["height"])
	})

	t.Run("Author overrides user agent", func(t *testing.T) {
		engine := setupEngine(`p { display: inline; }`)
		styles := engine.CalculateStyles(target)
		assert.Equal(t, parser.Other("inline"), styles["display"])
	})

	t.Run("Highest matching selector of a list counts", func(t *testing.T) {
		engine := setupEngine(`
			p, #target { width: 9px; }
			p.highlight { width: 5px; }
		`)
		styles := engine.CalculateStyles(target)
		assert.Equal(t, parser.Length{Magnitude: 9, Unit: parser.UnitPx}, styles["width"])
	})
}

func TestInlineStyleWins(t *testing.T) {
	target := parseHTMLAndFind(t, `<p id="target" style="width: 7px">Test</p>`, "//p")
	engine := setupEngine(`#target { width: 1px; color: red; }`)

	styles := engine.CalculateStyles(target)
	assert.Equal(t, parser.Length{Magnitude: 7, Unit: parser.UnitPx}, styles["width"])
	assert.Equal(t, parser.Color{R: 1, A: 1}, styles["color"])
}

func TestSimpleSelectorMatching(t *testing.T) {
	node := parseHTMLAndFind(t, `<div id="main" class="a b">x</div>`, "//div")

	tests := []struct {
		selector string
		matches  bool
	}{
		{"div", true},
		{"#main", true},
		{".a", true},
		{".a.b", true},
		{"div#main.b", true},
		{"span", false},
		{"#other", false},
		{".a.c", false},
		{"div#main.c", false},
		{"div > p", true}, // combinators are recorded, not applied
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sheet := parser.Parse(tt.selector + " {}")
			require.Len(t, sheet.Rules, 1)
			_, _, _, ok := matchRule(node, sheet.Rules[0])
			assert.Equal(t, tt.matches, ok)
		})
	}
}

func TestBuildTree(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(`<html><head><title>t</title></head><body>
		<!-- skipped -->
		<div id="a" class="box">hello</div>
		<span id="b"></span>
	</body></html>`))
	require.NoError(t, err)

	engine := setupEngine(`.box { width: 50%; } #b { display: inline-block; }`)
	root := engine.BuildTree(dom.RootElement(doc))
	require.NotNil(t, root)
	assert.Equal(t, DisplayBlock, root.Display())

	require.Len(t, root.Children, 2, "head and body")
	assert.Equal(t, DisplayNone, root.Children[0].Display())

	body := root.Children[1]
	require.Len(t, body.Children, 2, "comments and whitespace text are dropped")
	assert.Equal(t, 8.0, body.NumOr("margin-left", 0))

	a := findStyledNodeByID(root, "a")
	require.NotNil(t, a)
	assert.Equal(t, DisplayBlock, a.Display())
	assert.Equal(t, parser.Length{Magnitude: 50, Unit: parser.UnitPercent}, a.Specified["width"])
	require.Len(t, a.Children, 1)
	assert.Equal(t, DisplayInline, a.Children[0].Display(), "text is inline")
	assert.Empty(t, a.Children[0].Specified)

	b := findStyledNodeByID(root, "b")
	require.NotNil(t, b)
	assert.Equal(t, DisplayInlineBlock, b.Display())
}

func TestStyledNodeAccessors(t *testing.T) {
	sn := &StyledNode{Specified: map[string]parser.Value{
		"width":    parser.Length{Magnitude: 12, Unit: parser.UnitEm},
		"z-index":  parser.Other("3.5"),
		"float":    parser.Other("left"),
		"color":    parser.Color{R: 1, A: 1},
		"display":  parser.Other("flex"),
		"position": parser.Other("absolute"),
	}}

	assert.Equal(t, 12.0, sn.NumOr("width", -1))
	assert.Equal(t, 3.5, sn.NumOr("z-index", -1))
	assert.Equal(t, -1.0, sn.NumOr("float", -1))
	assert.Equal(t, -1.0, sn.NumOr("color", -1))
	assert.Equal(t, -1.0, sn.NumOr("missing", -1))
	assert.Equal(t, "absolute", sn.Lookup("position", "static"))
	assert.Equal(t, "static", sn.Lookup("color", "static"))
	assert.Equal(t, DisplayInline, sn.Display(), "unknown display values fall back to inline")

	_, ok := sn.Value("missing")
	assert.False(t, ok)

	var nilNode *StyledNode
	_, ok = nilNode.Value("width")
	assert.False(t, ok)
	assert.Equal(t, "inline-block", DisplayInlineBlock.String())
}
