package provider

import (
	"math"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Get returns the product with the given id, or ErrNotFound.
func (p *Provider) Get(id int64) (*types.Product, error) {
	res, err := p.Query(types.ItemURI(id), types.Query{})
	if err != nil {
		return nil, err
	}
	products, err := res.Products()
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, types.ErrNotFound
	}
	return products[0], nil
}

// AdjustQuantity adds delta to the stock of one product, clamping at zero,
// and returns the new quantity. A delta that would overflow is an invalid
// quantity and leaves the stock unchanged. The write goes through Update, so it is
// validated and announced like any other. A clamped result that equals the
// current quantity writes nothing.
func (p *Provider) AdjustQuantity(id int64, delta int64) (int64, error) {
	current, err := p.Get(id)
	if err != nil {
		return 0, err
	}

	if delta > 0 && current.Quantity > math.MaxInt64-delta {
		return 0, types.InvalidField(types.ColumnQuantity)
	}
	next := current.Quantity + delta
	if next < 0 {
		next = 0
	}
	if next == current.Quantity {
		return next, nil
	}

	rows, err := p.Update(types.ItemURI(id), types.Values{types.ColumnQuantity: next}, types.Selection{})
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, types.ErrNotFound
	}
	return next, nil
}

// Sell records one unit sold. Selling out-of-stock products is a no-op.
func (p *Provider) Sell(id int64) (int64, error) {
	return p.AdjustQuantity(id, -1)
}
