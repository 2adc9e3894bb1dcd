// File: cmd/parse.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cssbox/internal/config"
	"github.com/xkilldash9x/cssbox/internal/observability"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file.css>...",
		Short: "Parse stylesheets and report their rules",
		Long: `Parses each stylesheet and reports its rules, selectors with their
specificity, and typed declarations. Use "-" to read from standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runParse(cmd, cfg, observability.GetLogger().Named("parse"), args)
		},
	}
}

// runParse contains the core, testable logic of the parse command.
func runParse(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, paths []string) (err error) {
	if n := countStdin(paths); n > 1 {
		return fmt.Errorf("standard input (%q) can be read only once, got %d uses", stdinPath, n)
	}

	reporter, err := openReporter(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize reporter: %w", err)
	}
	defer closeReporter(reporter, &err)

	for _, path := range paths {
		sheet, err := loadStylesheet(cmd, path, logger)
		if err != nil {
			return err
		}
		logger.Info("Parsed stylesheet", zap.String("path", path), zap.Int("rules", len(sheet.Rules)))
		if err := reporter.WriteStylesheet(path, sheet); err != nil {
			return fmt.Errorf("failed to report %s: %w", path, err)
		}
	}
	return nil
}
