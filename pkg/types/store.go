package types

import "fmt"

// Selection is a caller-supplied predicate: a SQL boolean expression using
// ? placeholders, and the arguments bound to them. The zero Selection
// matches every row.
type Selection struct {
	Where string
	Args  []any
}

// Empty reports whether the selection matches every row.
func (s Selection) Empty() bool {
	return s.Where == ""
}

// Validate rejects arguments supplied without a predicate to bind them to.
func (s Selection) Validate() error {
	if s.Where == "" && len(s.Args) > 0 {
		return fmt.Errorf("%w: %d argument(s) without a where clause", ErrInvalidSelection, len(s.Args))
	}
	return nil
}

// ByID returns the selection for the single product with the given id.
func ByID(id int64) Selection {
	return Selection{Where: ColumnID + " = ?", Args: []any{id}}
}

// Query describes a read: which rows, which columns, in which order.
// Empty Columns projects every column. Empty SortOrder keeps storage order.
type Query struct {
	Selection
	Columns   []string
	SortOrder string
}

// Cursor is a lazy, finite, one-shot sequence of rows. Callers must Close
// it; Close is idempotent.
type Cursor interface {
	// Next advances to the next row and reports whether one exists.
	Next() bool

	// Product scans the current row. Columns outside the projection are
	// left as zero values.
	Product() (*Product, error)

	// Row scans the current row into a map keyed by column name.
	Row() (map[string]any, error)

	// Columns returns the projected column names.
	Columns() []string

	// Err returns the error, if any, that ended iteration.
	Err() error

	Close() error
}

// Store executes primitive operations on the products table. It performs no
// business validation; callers check payloads before writing.
type Store interface {
	Query(sel Selection, columns []string, sortOrder string) (Cursor, error)

	// Insert appends a row and returns its assigned id.
	Insert(values Values) (int64, error)

	// Update applies values to every row matching sel and returns the
	// number of rows changed. Zero is not an error.
	Update(sel Selection, values Values) (int64, error)

	// Delete removes every row matching sel and returns the count.
	Delete(sel Selection) (int64, error)
}

// Collect drains cur into a slice of products and closes it.
func Collect(cur Cursor) ([]*Product, error) {
	defer cur.Close()
	var out []*Product
	for cur.Next() {
		p, err := cur.Product()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

// Engine is a Store with a lifecycle. Operations before Open or after Close
// return ErrStorageNotInitialized.
type Engine interface {
	Store

	// Open attaches to the store described by config, creating it if
	// needed. Opening an open engine is a no-op.
	Open(config Config) error

	// Recreate drops and rebuilds the products table. All data is lost.
	Recreate() error

	// Close releases the store. It is idempotent.
	Close() error
}
