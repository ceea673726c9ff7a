package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// productFlags are the field flags shared by add and update.
type productFlags struct {
	name     string
	price    int64
	quantity int64
	phone    string
	image    string
}

func (f *productFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "product name")
	fs.Int64Var(&f.price, "price", 0, "price in the smallest currency unit")
	fs.Int64Var(&f.quantity, "quantity", 0, "units in stock")
	fs.StringVar(&f.phone, "phone", "", "supplier phone number")
	fs.StringVar(&f.image, "image", "", "path to the product image")
}

// values builds a payload from the flags that were set on the command
// line. Unset flags are left out so validation sees them as absent.
func (f *productFlags) values(fs *pflag.FlagSet) (types.Values, error) {
	v := types.Values{}
	if fs.Changed("name") {
		v[types.ColumnName] = f.name
	}
	if fs.Changed("price") {
		v[types.ColumnPrice] = f.price
	}
	if fs.Changed("quantity") {
		v[types.ColumnQuantity] = f.quantity
	}
	if fs.Changed("phone") {
		v[types.ColumnSupplierPhone] = f.phone
	}
	if fs.Changed("image") {
		data, err := os.ReadFile(f.image)
		if err != nil {
			return nil, userError("read image: %w", err)
		}
		v[types.ColumnImage] = data
	}
	return v, nil
}

func newAddCmd(a *app) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Example: `  stockroom add --name Widget --price 500 --quantity 10 \
    --phone 555-1234 --image widget.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := f.values(cmd.Flags())
			if err != nil {
				return err
			}

			s, err := a.openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			uri, err := s.provider.Insert(types.CollectionURI, values)
			if err != nil {
				return err
			}

			if a.jsonMode {
				return printJSON(cmd, map[string]string{"uri": uri})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Added", uri)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		sortOrder string
		where     string
		whereArgs []string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Example: `  stockroom list --sort "name ASC"
  stockroom list --where "quantity < ?" --arg 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			sel := types.Selection{Where: where}
			for _, arg := range whereArgs {
				sel.Args = append(sel.Args, arg)
			}

			res, err := s.provider.Query(types.CollectionURI, types.Query{
				Selection: sel,
				SortOrder: sortOrder,
			})
			if err != nil {
				return err
			}
			products, err := res.Products()
			if err != nil {
				return err
			}

			views := make([]productView, 0, len(products))
			for _, p := range products {
				views = append(views, newProductView(p))
			}
			if a.jsonMode {
				return printJSON(cmd, views)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUPPLIER")
			for _, v := range views {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", v.ID, v.Name, v.Price, v.Quantity, v.SupplierPhone)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&sortOrder, "sort", "", "sort order, e.g. \"price DESC\"")
	cmd.Flags().StringVar(&where, "where", "", "selection with ? placeholders")
	cmd.Flags().StringSliceVar(&whereArgs, "arg", nil, "argument bound to a ? placeholder (repeatable)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.provider.Query(types.CollectionURI+"/"+args[0], types.Query{})
			if err != nil {
				return err
			}
			products, err := res.Products()
			if err != nil {
				return err
			}
			if len(products) == 0 {
				return fmt.Errorf("%w: %s", types.ErrNotFound, args[0])
			}

			v := newProductView(products[0])
			if a.jsonMode {
				return printJSON(cmd, v)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %d\n", v.ID)
			fmt.Fprintf(out, "URI:       %s\n", v.URI)
			fmt.Fprintf(out, "Name:      %s\n", v.Name)
			fmt.Fprintf(out, "Price:     %d\n", v.Price)
			fmt.Fprintf(out, "Quantity:  %d\n", v.Quantity)
			fmt.Fprintf(out, "Supplier:  %s\n", v.SupplierPhone)
			fmt.Fprintf(out, "Image:     %d bytes\n", v.ImageBytes)
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of one product",
		Long:  "Update sends only the flags given on the command line; other fields keep their values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := f.values(cmd.Flags())
			if err != nil {
				return err
			}

			s, err := a.openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.provider.Update(types.CollectionURI+"/"+args[0], values, types.Selection{})
			if err != nil {
				return err
			}
			if len(values) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to update")
				return nil
			}
			if rows == 0 {
				return fmt.Errorf("%w: %s", types.ErrNotFound, args[0])
			}

			if a.jsonMode {
				return printJSON(cmd, map[string]int64{"rows": rows})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated", args[0])
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "delete <id> | --all",
		Short: "Remove one product, or every product with --all",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := types.CollectionURI
			if !all {
				uri += "/" + args[0]
			}

			s, err := a.openSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.provider.Delete(uri, types.Selection{})
			if err != nil {
				return err
			}
			if !all && rows == 0 {
				return fmt.Errorf("%w: %s", types.ErrNotFound, args[0])
			}

			if a.jsonMode {
				return printJSON(cmd, map[string]int64{"rows": rows})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d product(s)\n", rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every product")
	return cmd
}
