package types

import "strconv"

// Resource identity. A Collection identifier is
// content://<Authority>/<PathProducts>; an Item identifier appends the
// numeric product id as one more path segment.
const (
	Scheme       = "content"
	Authority    = "com.example.android.inventoryapp"
	PathProducts = "productions"
)

// BaseURI is the root identifier every product identifier descends from.
const BaseURI = Scheme + "://" + Authority

// CollectionURI identifies the full set of products.
const CollectionURI = BaseURI + "/" + PathProducts

// Type tags returned by TypeOf. They let generic callers decide whether a
// result holds many products or exactly one.
const (
	ContentListType = "vnd.stockroom.cursor.dir/" + Authority + "/" + PathProducts
	ContentItemType = "vnd.stockroom.cursor.item/" + Authority + "/" + PathProducts
)

// Database file and table names.
const (
	DatabaseName = "product_inventory.db"
	TableName    = "products"
)

// Column names of the products table.
const (
	ColumnID            = "id"
	ColumnName          = "name"
	ColumnPrice         = "price"
	ColumnQuantity      = "quantity"
	ColumnSupplierPhone = "supplier_phone"
	ColumnImage         = "image"
)

// Columns lists every column in table order.
var Columns = []string{
	ColumnID,
	ColumnName,
	ColumnPrice,
	ColumnQuantity,
	ColumnSupplierPhone,
	ColumnImage,
}

// MutableColumns lists the columns a mutation payload may carry, in the
// order the validation pipeline checks them.
var MutableColumns = []string{
	ColumnName,
	ColumnPrice,
	ColumnQuantity,
	ColumnSupplierPhone,
	ColumnImage,
}

var knownColumns = func() map[string]bool {
	m := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		m[c] = true
	}
	return m
}()

// IsColumn reports whether name is a column of the products table.
func IsColumn(name string) bool {
	return knownColumns[name]
}

// ItemURI returns the Item identifier for the product with the given id.
func ItemURI(id int64) string {
	return CollectionURI + "/" + strconv.FormatInt(id, 10)
}
