// Package cli provides the command-line interface for insight.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vegasq/insight/dataset"
	"github.com/vegasq/insight/internal/config"
	"github.com/vegasq/insight/internal/logging"
	"github.com/vegasq/insight/output"
	"github.com/vegasq/insight/query"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "insight",
		Short: "insight - query course and room datasets",
		Long: `insight loads course section and campus room datasets and answers
JSON queries over them, from the command line or over HTTP.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if cfg.FileUsed != "" {
				logger.Debug("using config file", "path", cfg.FileUsed)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./insight.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding dataset files")
	rootCmd.PersistentFlags().Int("result-limit", 0, "Maximum number of result rows")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newDatasetsCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newRemoveCommand())
	rootCmd.AddCommand(newSchemaCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return logging.Discard()
}

// openRegistry loads every dataset stored in the configured data directory.
func openRegistry(cmd *cobra.Command) (*dataset.Registry, error) {
	cfg := GetConfig(cmd.Context())
	reg := dataset.NewRegistry(
		dataset.WithStore(dataset.NewStore(cfg.DataDir)),
		dataset.WithLogger(GetLogger(cmd.Context())),
	)
	if err := reg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load datasets from %s: %w", cfg.DataDir, err)
	}
	return reg, nil
}

// newEngine creates a query engine over reg using the configured limit.
func newEngine(cmd *cobra.Command, reg *dataset.Registry) *query.Engine {
	cfg := GetConfig(cmd.Context())
	return query.NewEngine(reg,
		query.WithResultLimit(cfg.ResultLimit),
		query.WithLogger(GetLogger(cmd.Context())),
	)
}

// printTable writes rows as a text table to the command output.
func printTable(cmd *cobra.Command, columns []string, rows []map[string]interface{}) error {
	return output.NewTableFormatter(cmd.OutOrStdout()).Format(columns, rows)
}
