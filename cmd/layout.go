// File: cmd/layout.go
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/cssbox/internal/browser/dom"
	"github.com/xkilldash9x/cssbox/internal/browser/layout"
	"github.com/xkilldash9x/cssbox/internal/browser/parser"
	"github.com/xkilldash9x/cssbox/internal/browser/style"
	"github.com/xkilldash9x/cssbox/internal/config"
	"github.com/xkilldash9x/cssbox/internal/observability"
)

// layoutOptions holds the flags of the layout command that are not part of
// the configuration.
type layoutOptions struct {
	stylesheets []string
	queries     []string
}

// layoutResult is one finished pass.
type layoutResult struct {
	engine *layout.Engine
	root   *layout.LayoutBox
}

func newLayoutCmd() *cobra.Command {
	var opts layoutOptions

	layoutCmd := &cobra.Command{
		Use:   "layout [--css file.css]... <page.html>...",
		Short: "Style and lay out HTML documents",
		Long: `Applies the given stylesheets to each document and lays it out in a
viewport of the configured width. Documents are laid out concurrently; the
report lists them in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runLayout(cmd.Context(), cmd, cfg, observability.GetLogger().Named("layout_cmd"), opts, args)
		},
	}

	layoutCmd.Flags().StringSliceVar(&opts.stylesheets, "css", nil, "author stylesheet, may be repeated")
	layoutCmd.Flags().StringSliceVarP(&opts.queries, "query", "q", nil, "XPath of an element whose border box is reported, may be repeated")
	layoutCmd.Flags().Float64("viewport-width", 800, "width of the initial containing block in px")
	layoutCmd.Flags().Bool("strict", false, "fail on width units other than px and %")
	layoutCmd.Flags().Int("concurrency", 4, "documents laid out in parallel")
	return layoutCmd
}

// runLayout contains the core, testable logic of the layout command.
func runLayout(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, opts layoutOptions, documents []string) (err error) {
	if n := countStdin(opts.stylesheets) + countStdin(documents); n > 1 {
		return fmt.Errorf("standard input (%q) can be read only once, got %d uses", stdinPath, n)
	}

	sheets := make([]parser.StyleSheet, 0, len(opts.stylesheets))
	for _, path := range opts.stylesheets {
		sheet, err := loadStylesheet(cmd, path, logger)
		if err != nil {
			return err
		}
		sheets = append(sheets, sheet)
	}

	results := make([]layoutResult, len(documents))
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Layout.Concurrency)

	for i, path := range documents {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result, err := layoutDocument(cmd, cfg, logger, sheets, path)
			if err != nil {
				return fmt.Errorf("layout of %s failed: %w", path, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	reporter, err := openReporter(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize reporter: %w", err)
	}
	defer closeReporter(reporter, &err)

	for i, path := range documents {
		result := results[i]
		if err := reporter.WriteLayout(path, result.root); err != nil {
			return fmt.Errorf("failed to report %s: %w", path, err)
		}
		for _, query := range opts.queries {
			geom, err := result.engine.GetElementGeometry(result.root, query)
			if err != nil {
				logger.Warn("Skipping geometry query", zap.String("document", path), zap.String("query", query), zap.Error(err))
				continue
			}
			if err := reporter.WriteGeometry(path, query, geom); err != nil {
				return fmt.Errorf("failed to report geometry for %s: %w", path, err)
			}
		}
	}
	return nil
}

// layoutDocument runs one pass: parse the document, build its styled tree
// and lay it out in the configured viewport.
func layoutDocument(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, sheets []parser.StyleSheet, path string) (layoutResult, error) {
	passLogger := logger.With(zap.String("pass_id", uuid.NewString()), zap.String("document", path))
	start := time.Now()

	data, err := readSource(cmd, path)
	if err != nil {
		return layoutResult{}, err
	}
	doc, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return layoutResult{}, err
	}
	rootElement := dom.RootElement(doc)
	if rootElement == nil {
		return layoutResult{}, errors.New("document has no root element")
	}

	styles := style.NewEngine(passLogger)
	for _, sheet := range sheets {
		styles.AddAuthorSheet(sheet)
	}
	styled := styles.BuildTree(rootElement)

	engine := layout.NewEngine(
		layout.WithLogger(passLogger),
		layout.WithStrictUnits(cfg.Layout.StrictUnits),
	)
	viewport := layout.Dimensions{Content: layout.Rect{
		Width:  cfg.Layout.ViewportWidth,
		Height: cfg.Layout.ViewportHeight,
	}}
	root, err := engine.LayoutTree(styled, viewport)
	if err != nil {
		return layoutResult{}, err
	}

	boxes := 0
	root.Walk(func(*layout.LayoutBox, int) { boxes++ })
	passLogger.Info("Laid out document",
		zap.Int("boxes", boxes),
		zap.Float64("height", root.Dimensions.MarginBox().Height),
		zap.Duration("duration", time.Since(start)),
	)
	return layoutResult{engine: engine, root: root}, nil
}
