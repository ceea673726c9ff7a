package types

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Product is one row of the products table. Price is held in the smallest
// currency unit. Columns left out of a projection scan as zero values.
type Product struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Price         int64  `db:"price" json:"price"`
	Quantity      int64  `db:"quantity" json:"quantity"`
	SupplierPhone string `db:"supplier_phone" json:"supplier_phone"`
	Image         []byte `db:"image" json:"image,omitempty"`
}

// Values returns the mutable fields of p as a creation payload. A nil
// image is left out so strict validation reports it as missing.
func (p *Product) Values() Values {
	v := Values{
		ColumnName:          p.Name,
		ColumnPrice:         p.Price,
		ColumnQuantity:      p.Quantity,
		ColumnSupplierPhone: p.SupplierPhone,
	}
	if p.Image != nil {
		v[ColumnImage] = p.Image
	}
	return v
}

// Values is a field-value payload for insert and update, keyed by column
// name. A key that is present with a nil value is distinct from an absent
// key.
type Values map[string]any

// Has reports whether key is present, even with a nil value.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Keys returns the payload keys in column order, followed by any keys that
// are not product columns in unspecified order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	seen := make(map[string]bool, len(v))
	for _, c := range Columns {
		if v.Has(c) {
			keys = append(keys, c)
			seen[c] = true
		}
	}
	for k := range v {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// AsString returns the value for key converted to text.
// ok is false when the key is absent, nil, or not convertible.
func (v Values) AsString(key string) (s string, ok bool) {
	raw, present := v[key]
	if !present || raw == nil {
		return "", false
	}
	if b, isBytes := raw.([]byte); isBytes {
		return string(b), true
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

// AsInt64 returns the value for key converted to an integer. Decimal text
// such as "500" converts; fractional, boolean or non-numeric values do not.
func (v Values) AsInt64(key string) (n int64, ok bool) {
	raw, present := v[key]
	if !present || raw == nil {
		return 0, false
	}
	switch x := raw.(type) {
	case bool:
		return 0, false
	case float32:
		if float32(int64(x)) != x {
			return 0, false
		}
	case float64:
		if float64(int64(x)) != x {
			return 0, false
		}
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	n, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsBytes returns the value for key as a byte slice. Strings convert to
// their bytes.
func (v Values) AsBytes(key string) (b []byte, ok bool) {
	raw, present := v[key]
	if !present || raw == nil {
		return nil, false
	}
	switch x := raw.(type) {
	case []byte:
		return x, true
	case string:
		return []byte(x), true
	default:
		return nil, false
	}
}
