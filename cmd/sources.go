// File: cmd/sources.go
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cssbox/internal/browser/parser"
	"github.com/xkilldash9x/cssbox/internal/config"
	"github.com/xkilldash9x/cssbox/internal/reporting"
)

// stdinPath names standard input as a source.
const stdinPath = "-"

// readSource reads a file argument, or standard input for "-".
func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path %s: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// countStdin counts the sources that name standard input.
func countStdin(paths []string) int {
	n := 0
	for _, path := range paths {
		if path == stdinPath {
			n++
		}
	}
	return n
}

func loadStylesheet(cmd *cobra.Command, path string, logger *zap.Logger) (parser.StyleSheet, error) {
	data, err := readSource(cmd, path)
	if err != nil {
		return parser.StyleSheet{}, err
	}
	return parser.NewParser(string(data), logger.With(zap.String("stylesheet", path))).Parse(), nil
}

// openReporter writes to the command's output stream unless a report path
// is configured.
func openReporter(cmd *cobra.Command, cfg *config.Config) (reporting.Reporter, error) {
	if cfg.Output.Path == "" || cfg.Output.Path == "stdout" {
		return reporting.NewForStream(cfg.Output.Format, cmd.OutOrStdout())
	}
	return reporting.New(cfg.Output.Format, cfg.Output.Path)
}

// closeReporter finalizes the report, keeping the first error.
func closeReporter(reporter reporting.Reporter, err *error) {
	if cerr := reporter.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to finalize report: %w", cerr)
	}
}
