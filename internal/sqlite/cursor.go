package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

var _ types.Cursor = (*cursor)(nil)

// cursor adapts *sqlx.Rows to types.Cursor. Rows are read from the
// database as the caller advances.
type cursor struct {
	rows    *sqlx.Rows
	columns []string
	closed  bool
}

func newCursor(rows *sqlx.Rows) (*cursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	return &cursor{rows: rows, columns: cols}, nil
}

func (c *cursor) Next() bool {
	if c.closed {
		return false
	}
	return c.rows.Next()
}

func (c *cursor) Product() (*types.Product, error) {
	var p types.Product
	if err := c.rows.StructScan(&p); err != nil {
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	return &p, nil
}

func (c *cursor) Row() (map[string]any, error) {
	row := make(map[string]any, len(c.columns))
	if err := c.rows.MapScan(row); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}
	return row, nil
}

func (c *cursor) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

func (c *cursor) Err() error {
	return c.rows.Err()
}

func (c *cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rows.Close()
}
