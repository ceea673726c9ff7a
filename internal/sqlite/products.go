package sqlite

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// handle returns the open database or ErrStorageNotInitialized. The caller
// must hold b.mu for reading.
func (b *Backend) handle() (*sqlx.DB, error) {
	if !b.attached || b.db == nil {
		return nil, types.ErrStorageNotInitialized
	}
	return b.db, nil
}

// Query returns a cursor over the rows matching sel. Empty columns projects
// every column; sortOrder is used verbatim as an ORDER BY clause.
func (b *Backend) Query(sel types.Selection, columns []string, sortOrder string) (types.Cursor, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.handle()
	if err != nil {
		return nil, err
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	projection, err := projectionList(columns)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + projection + " FROM " + types.TableName
	if !sel.Empty() {
		query += " WHERE " + sel.Where
	}
	if sortOrder != "" {
		query += " ORDER BY " + sortOrder
	}

	rows, err := db.Queryx(query, sel.Args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	return newCursor(rows)
}

// Insert appends a row built from values and returns the assigned id.
func (b *Backend) Insert(values types.Values) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.handle()
	if err != nil {
		return 0, err
	}

	cols, args, err := assignments(values)
	if err != nil {
		return 0, err
	}

	var query string
	if len(cols) == 0 {
		query = "INSERT INTO " + types.TableName + " DEFAULT VALUES"
	} else {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
		query = "INSERT INTO " + types.TableName +
			" (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders + ")"
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting product: %w", types.ErrStorageWriteFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading inserted id: %w", types.ErrStorageWriteFailed, err)
	}
	return id, nil
}

// Update applies values to the rows matching sel. An empty values map
// changes nothing and returns 0.
func (b *Backend) Update(sel types.Selection, values types.Values) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.handle()
	if err != nil {
		return 0, err
	}
	if err := sel.Validate(); err != nil {
		return 0, err
	}

	cols, args, err := assignments(values)
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, nil
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	query := "UPDATE " + types.TableName + " SET " + strings.Join(sets, ", ")
	if !sel.Empty() {
		query += " WHERE " + sel.Where
		args = append(args, sel.Args...)
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: updating products: %w", types.ErrStorageWriteFailed, err)
	}
	return rowsAffected(res.RowsAffected())
}

// Delete removes the rows matching sel. The empty selection removes every
// row.
func (b *Backend) Delete(sel types.Selection) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.handle()
	if err != nil {
		return 0, err
	}
	if err := sel.Validate(); err != nil {
		return 0, err
	}

	query := "DELETE FROM " + types.TableName
	if !sel.Empty() {
		query += " WHERE " + sel.Where
	}

	res, err := db.Exec(query, sel.Args...)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting products: %w", types.ErrStorageWriteFailed, err)
	}
	return rowsAffected(res.RowsAffected())
}

func rowsAffected(n int64, err error) (int64, error) {
	if err != nil {
		return 0, fmt.Errorf("%w: reading rows affected: %w", types.ErrStorageWriteFailed, err)
	}
	return n, nil
}

// projectionList validates columns and joins them for a SELECT list.
func projectionList(columns []string) (string, error) {
	if len(columns) == 0 {
		return strings.Join(types.Columns, ", "), nil
	}
	for _, c := range columns {
		if !types.IsColumn(c) {
			return "", fmt.Errorf("%w: %q", types.ErrUnknownColumn, c)
		}
	}
	return strings.Join(columns, ", "), nil
}

// assignments splits values into column names and bound arguments in
// column order. Keys that are not columns are rejected; the engine never
// interpolates an unchecked identifier.
func assignments(values types.Values) ([]string, []any, error) {
	for k := range values {
		if !types.IsColumn(k) {
			return nil, nil, fmt.Errorf("%w: %q", types.ErrUnknownColumn, k)
		}
	}
	var cols []string
	var args []any
	for _, c := range types.Columns {
		if v, ok := values[c]; ok {
			cols = append(cols, c)
			args = append(args, v)
		}
	}
	return cols, args, nil
}
