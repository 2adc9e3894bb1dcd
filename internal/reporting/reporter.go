// internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"

	"github.com/xkilldash9x/cssbox/internal/browser/layout"
	"github.com/xkilldash9x/cssbox/internal/browser/parser"
)

// Reporter writes diagnostic projections of stylesheets and layout trees.
// Implementations are safe for concurrent use.
type Reporter interface {
	// WriteStylesheet records a parsed sheet under the name of its source.
	WriteStylesheet(source string, sheet parser.StyleSheet) error
	// WriteLayout records a laid out box tree under the name of its source.
	WriteLayout(source string, root *layout.LayoutBox) error
	// WriteGeometry records the border box of an element selected by query.
	WriteGeometry(source, query string, geom *layout.ElementGeometry) error
	// Close finalizes the report and closes the underlying writer.
	Close() error
}

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
)

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for format writing to outputPath. An empty path or
// "stdout" writes to standard output; a leading "~" is expanded.
func New(format, outputPath string) (Reporter, error) {
	if !isSupported(format) {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	if outputPath == "" || outputPath == "stdout" {
		return NewForStream(format, os.Stdout)
	}

	path, err := homedir.Expand(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand output path %s: %w", outputPath, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return NewWithWriter(format, f)
}

// NewForStream creates a reporter on a stream it does not own; Close leaves
// w open.
func NewForStream(format string, w io.Writer) (Reporter, error) {
	return NewWithWriter(format, &nopWriteCloser{w})
}

// NewWithWriter creates a reporter that takes ownership of writer.
func NewWithWriter(format string, writer io.WriteCloser) (Reporter, error) {
	switch format {
	case FormatText:
		return NewTextReporter(writer), nil
	case FormatJSON:
		return newStructuredReporter(format, writer, encodeJSON), nil
	case FormatYAML:
		return newStructuredReporter(format, writer, encodeYAML), nil
	case FormatXML:
		return newStructuredReporter(format, writer, encodeXML), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func isSupported(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatYAML, FormatXML:
		return true
	}
	return false
}
