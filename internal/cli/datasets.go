package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vegasq/insight/dataset"
)

func newDatasetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"ls"},
		Short:   "List loaded datasets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := openRegistry(cmd)
			if err != nil {
				return err
			}
			infos := reg.List()
			if len(infos) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No datasets loaded.")
				return nil
			}

			rows := make([]map[string]interface{}, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, map[string]interface{}{
					"id":   info.ID,
					"kind": info.Kind.String(),
					"rows": info.NumRows,
				})
			}
			return printTable(cmd, []string{"id", "kind", "rows"}, rows)
		},
	}
}

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <sections|rooms> <file>",
		Short: "Import a dataset",
		Long: `Import a dataset from a parquet file or a JSON file holding an array of
row objects. The dataset is stored in the data directory.`,
		Example: `  insight add courses sections sections.json
  insight add campus rooms rooms.parquet`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, path := args[0], args[2]
			kind, err := dataset.ParseKind(args[1])
			if err != nil {
				return err
			}
			if err := dataset.ValidateID(id); err != nil {
				return err
			}

			rows, err := dataset.ReadRowsFile(kind, path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			reg, err := openRegistry(cmd)
			if err != nil {
				return err
			}
			ds, err := reg.Add(id, kind, rows)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %d rows)\n", ds.ID, ds.Kind, len(ds.Rows))
			return nil
		},
	}
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a dataset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry(cmd)
			if err != nil {
				return err
			}
			if err := reg.Remove(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newSchemaCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "schema [sections|rooms]",
		Short: "Show the fields of a dataset kind",
		Long: `Show the queryable fields of a dataset kind.

With --file the columns of a parquet file are listed instead; when a kind
is given too, the file is checked for compatibility with it.`,
		Example: `  insight schema rooms
  insight schema --file rooms.parquet rooms`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind dataset.Kind
			if len(args) == 1 {
				k, err := dataset.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = k
			}

			if file != "" {
				return showFileSchema(cmd, file, kind)
			}
			if kind == "" {
				return fmt.Errorf("a dataset kind or --file is required")
			}

			fields := dataset.Schema(kind)
			rows := make([]map[string]interface{}, 0, len(fields))
			for _, f := range fields {
				rows = append(rows, map[string]interface{}{"name": f.Name, "type": f.Type.String()})
			}
			return printTable(cmd, []string{"name", "type"}, rows)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Parquet file to inspect")
	return cmd
}

func showFileSchema(cmd *cobra.Command, path string, kind dataset.Kind) error {
	infos, err := dataset.ExtractSchemaInfo(path)
	if err != nil {
		return err
	}

	rows := make([]map[string]interface{}, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, map[string]interface{}{
			"name":          info.Name,
			"type":          info.Type,
			"physical_type": info.PhysicalType,
			"required":      info.Required,
		})
	}
	if err := printTable(cmd, []string{"name", "type", "physical_type", "required"}, rows); err != nil {
		return err
	}

	if kind == "" {
		return nil
	}
	if err := dataset.CheckCompatible(kind, infos); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Compatible with %s\n", kind)
	return nil
}
