package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTypeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "type <uri>",
		Short: "Print the type tag of a resource identifier",
		Example: `  stockroom type content://com.example.android.inventoryapp/productions
  stockroom type content://com.example.android.inventoryapp/productions/3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.provider.TypeOf(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the products table",
		Long:  "Reset deletes every product and rebuilds the table from the current schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return userError("reset deletes every product; pass --yes to confirm")
			}

			s, err := a.openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.engine.Recreate(); err != nil {
				return sysError(fmt.Errorf("recreate: %w", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Products table recreated")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm that all products are deleted")
	return cmd
}
