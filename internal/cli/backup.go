package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/jsonl"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every product to a JSONL file",
		Long:  "Export writes one JSON object per product, in id order, with the image base64 encoded.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.provider.Query(types.CollectionURI, types.Query{SortOrder: types.ColumnID + " ASC"})
			if err != nil {
				return err
			}
			products, err := res.Products()
			if err != nil {
				return err
			}
			if err := jsonl.WriteFile(args[0], products); err != nil {
				return sysError(fmt.Errorf("export: %w", err))
			}

			if a.jsonMode {
				return printJSON(cmd, map[string]int{"products": len(products)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d product(s) to %s\n", len(products), args[0])
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add products from a JSONL file",
		Long: `Import inserts each record of an export file as a new product. Record ids are
ignored. Every record is validated; import stops at the first rejected record
and keeps the products added before it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := jsonl.ReadFile[types.Product](args[0])
			if err != nil {
				return userError("import: %w", err)
			}

			s, err := a.openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			for i, p := range products {
				if _, err := s.provider.Insert(types.CollectionURI, p.Values()); err != nil {
					return fmt.Errorf("record %d (%d imported): %w", i+1, i, err)
				}
			}

			if a.jsonMode {
				return printJSON(cmd, map[string]int{"products": len(products)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d product(s)\n", len(products))
			return nil
		},
	}
}
