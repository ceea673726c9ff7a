package provider

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Inserting any valid payload and reading it back preserves every field.
func TestProperty_InsertPreservesFields(t *testing.T) {
	if testing.Short() {
		t.Skip("property test")
	}
	p := newTestProvider(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("inserted products read back unchanged", prop.ForAll(
		func(name string, price int64, quantity int64, phone string, image []byte) bool {
			uri, err := p.Insert(types.CollectionURI, types.Values{
				types.ColumnName:          name,
				types.ColumnPrice:         price,
				types.ColumnQuantity:      quantity,
				types.ColumnSupplierPhone: phone,
				types.ColumnImage:         image,
			})
			if err != nil {
				t.Logf("FAIL: insert: %v", err)
				return false
			}
			res, err := p.Query(uri, types.Query{})
			if err != nil {
				return false
			}
			products, err := res.Products()
			if err != nil || len(products) != 1 {
				return false
			}
			got := products[0]
			return got.Name == name &&
				got.Price == price &&
				got.Quantity == quantity &&
				got.SupplierPhone == phone &&
				string(got.Image) == string(image)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.Int64Range(0, 1<<40),
		gen.Int64Range(0, 1<<20),
		gen.NumString().SuchThat(func(s string) bool { return s != "" }),
		gen.SliceOfN(32, gen.UInt8()).Map(func(b []uint8) []byte { return b }),
	))

	properties.TestingRun(t)
}

// Negative prices and quantities are always rejected and never stored.
func TestProperty_NegativeValuesRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("property test")
	}
	p := newTestProvider(t)
	if _, err := p.Insert(types.CollectionURI, widget()); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	properties := gopter.NewProperties(nil)

	properties.Property("negative numbers never reach storage", prop.ForAll(
		func(n int64, field bool) bool {
			column := types.ColumnPrice
			if field {
				column = types.ColumnQuantity
			}
			rows, err := p.Update(types.ItemURI(1), types.Values{column: n}, types.Selection{})
			if rows != 0 || err == nil {
				return false
			}
			got, err := p.Get(1)
			return err == nil && got.Price == 500 && got.Quantity == 10
		},
		gen.Int64Range(-1<<40, -1),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
