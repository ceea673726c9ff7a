package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/resource"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func parseID(arg string) (int64, error) {
	id, err := resource.ParseID(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: product id %q", types.ErrUnsupportedResource, arg)
	}
	return id, nil
}

// adjust applies delta to one product and prints the new quantity.
func (a *app) adjust(cmd *cobra.Command, arg string, delta int64) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	s, err := a.openSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	q, err := s.provider.AdjustQuantity(id, delta)
	if err != nil {
		return err
	}

	if a.jsonMode {
		return printJSON(cmd, map[string]int64{"id": id, "quantity": q})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d in stock\n", q)
	return nil
}

func newSellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <id>",
		Short: "Record one unit sold",
		Long:  "Sell lowers the quantity by one. A product with nothing in stock is left at zero.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.adjust(cmd, args[0], -1)
		},
	}
}

func newReceiveCmd(a *app) *cobra.Command {
	var count int64
	cmd := &cobra.Command{
		Use:   "receive <id>",
		Short: "Record units received from the supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return userError("--count must be at least 1")
			}
			return a.adjust(cmd, args[0], count)
		},
	}
	cmd.Flags().Int64Var(&count, "count", 1, "units received")
	return cmd
}
