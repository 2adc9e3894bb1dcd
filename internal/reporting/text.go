// internal/reporting/text.go
package reporting

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xkilldash9x/cssbox/internal/browser/dom"
	"github.com/xkilldash9x/cssbox/internal/browser/layout"
	"github.com/xkilldash9x/cssbox/internal/browser/parser"
)

// TextReporter streams a human readable dump as entries arrive.
type TextReporter struct {
	mu      sync.Mutex
	writer  io.WriteCloser
	written bool
}

func NewTextReporter(writer io.WriteCloser) *TextReporter {
	return &TextReporter{writer: writer}
}

func (r *TextReporter) WriteStylesheet(source string, sheet parser.StyleSheet) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== stylesheet: %s (%d rules) ==\n", source, len(sheet.Rules))
	if len(sheet.Rules) > 0 {
		sb.WriteString(sheet.String())
		sb.WriteByte('\n')
	}
	return r.emit(sb.String())
}

func (r *TextReporter) WriteLayout(source string, root *layout.LayoutBox) error {
	if root == nil {
		return fmt.Errorf("layout tree for %s is nil", source)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "== layout: %s ==\n", source)
	root.Walk(func(box *layout.LayoutBox, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(formatBox(box))
		sb.WriteByte('\n')
	})
	return r.emit(sb.String())
}

func (r *TextReporter) WriteGeometry(source, query string, geom *layout.ElementGeometry) error {
	if geom == nil {
		return fmt.Errorf("geometry for %s in %s is nil", query, source)
	}
	rect := layout.Rect{X: geom.X, Y: geom.Y, Width: geom.Width, Height: geom.Height}
	return r.emit(fmt.Sprintf("== geometry: %s %s ==\n%s %s border-box=%s\n",
		source, query, geom.BoxType, geom.XPath, formatRect(rect)))
}

// emit writes one section, separated from the previous by a blank line.
func (r *TextReporter) emit(section string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.written {
		section = "\n" + section
	}
	if _, err := io.WriteString(r.writer, section); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}
	r.written = true
	return nil
}

func (r *TextReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writer.Close(); err != nil {
		return fmt.Errorf("failed to close output writer: %w", err)
	}
	return nil
}

// formatBox renders e.g. "block div#main content=(8,8 784x50) margin-box=(0,0 800x66)".
func formatBox(box *layout.LayoutBox) string {
	node := "<anonymous>"
	if box.StyledNode != nil && box.StyledNode.Node != nil {
		node = dom.Describe(box.StyledNode.Node)
	}
	d := box.Dimensions
	return fmt.Sprintf("%s %s content=%s margin-box=%s",
		box.BoxType, node, formatRect(d.Content), formatRect(d.MarginBox()))
}

func formatRect(r layout.Rect) string {
	return fmt.Sprintf("(%s,%s %sx%s)",
		formatNumber(r.X), formatNumber(r.Y), formatNumber(r.Width), formatNumber(r.Height))
}
