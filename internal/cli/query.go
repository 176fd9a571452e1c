package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/insight/output"
)

func newQueryCommand() *cobra.Command {
	var (
		inline string
		format string
	)

	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "Evaluate a JSON query",
		Long: `Evaluate a JSON query against the datasets in the data directory.

The query is read from the file argument, from -q, or from standard input.`,
		Example: `  insight query q.json
  insight query -f csv q.json
  insight query -q '{"WHERE": {}, "OPTIONS": {"COLUMNS": ["courses_dept"]}}'
  cat q.json | insight query -f table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inline != "" && len(args) > 0 {
				return fmt.Errorf("-q and a query file cannot be used together")
			}
			formatter, err := output.New(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			data, err := readQuery(cmd, inline, args)
			if err != nil {
				return err
			}

			reg, err := openRegistry(cmd)
			if err != nil {
				return err
			}
			result, err := newEngine(cmd, reg).PerformQueryJSON(data)
			if err != nil {
				return err
			}
			return formatter.Format(result.Columns, result.Rows)
		},
	}

	cmd.Flags().StringVarP(&inline, "query", "q", "", "Query text")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: "+strings.Join(output.Formats, ", "))
	return cmd
}

func readQuery(cmd *cobra.Command, inline string, args []string) ([]byte, error) {
	switch {
	case inline != "":
		return []byte(inline), nil
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("query file '%s' not found", args[0])
			}
			return nil, fmt.Errorf("failed to read query file: %w", err)
		}
		return data, nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read query from stdin: %w", err)
		}
		return data, nil
	}
}
