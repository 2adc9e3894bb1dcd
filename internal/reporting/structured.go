// internal/reporting/structured.go
package reporting

import (
	"fmt"
	"io"
	"sync"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/cssbox/internal/browser/layout"
	"github.com/xkilldash9x/cssbox/internal/browser/parser"
	"github.com/xkilldash9x/cssbox/internal/observability"
)

// encodeFunc serializes the whole document to w.
type encodeFunc func(w io.Writer, doc *Document) error

// StructuredReporter buffers every entry and serializes a single document
// when closed.
type StructuredReporter struct {
	format string
	writer io.WriteCloser
	encode encodeFunc
	logger *zap.Logger

	// mu protects doc.
	mu  sync.Mutex
	doc Document
}

func newStructuredReporter(format string, writer io.WriteCloser, encode encodeFunc) *StructuredReporter {
	return &StructuredReporter{
		format: format,
		writer: writer,
		encode: encode,
		logger: observability.GetLogger().Named("reporter").With(zap.String("format", format)),
	}
}

func (r *StructuredReporter) WriteStylesheet(source string, sheet parser.StyleSheet) error {
	report := NewSheetReport(source, sheet)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc.Stylesheets = append(r.doc.Stylesheets, report)
	return nil
}

func (r *StructuredReporter) WriteLayout(source string, root *layout.LayoutBox) error {
	if root == nil {
		return fmt.Errorf("layout tree for %s is nil", source)
	}
	report := NewLayoutReport(source, root)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc.Layouts = append(r.doc.Layouts, report)
	return nil
}

func (r *StructuredReporter) WriteGeometry(source, query string, geom *layout.ElementGeometry) error {
	if geom == nil {
		return fmt.Errorf("geometry for %s in %s is nil", query, source)
	}
	report := NewGeometryReport(source, query, geom)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc.Geometries = append(r.doc.Geometries, report)
	return nil
}

// Close encodes the buffered document and closes the writer.
func (r *StructuredReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("Finalizing report",
		zap.Int("stylesheets", len(r.doc.Stylesheets)),
		zap.Int("layouts", len(r.doc.Layouts)),
		zap.Int("geometries", len(r.doc.Geometries)),
	)

	encodeErr := r.encode(r.writer, &r.doc)
	// Always attempt to close the writer, regardless of encoding success.
	closeErr := r.writer.Close()

	if encodeErr != nil {
		return fmt.Errorf("failed to encode %s output: %w", r.format, encodeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output writer: %w", closeErr)
	}
	return nil
}

func encodeJSON(w io.Writer, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func encodeYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
