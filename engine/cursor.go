package engine

import (
	"database/sql"
)

// Cursor is a forward-only reader over one executed statement's result.
// Column metadata is captured at creation, before any row is read.
type Cursor struct {
	rows *sql.Rows
	cols []string
	done bool
}

func newCursor(rows *sql.Rows) (*Cursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	return &Cursor{rows: rows, cols: cols}, nil
}

// Columns returns the result's column names in output order.
func (c *Cursor) Columns() []string {
	return c.cols
}

// Fetch reads up to n rows, fewer when the result is exhausted. A negative n
// reads everything remaining. Values are the engine driver's native Go
// representations.
func (c *Cursor) Fetch(n int) ([][]any, error) {
	if c.done {
		return nil, nil
	}

	var out [][]any
	for n < 0 || len(out) < n {
		if !c.rows.Next() {
			c.done = true
			break
		}
		row := make([]any, len(c.cols))
		ptrs := make([]any, len(c.cols))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := c.rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	if c.done {
		if err := c.rows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FetchAll reads every remaining row.
func (c *Cursor) FetchAll() ([][]any, error) {
	return c.Fetch(-1)
}

// Close releases the engine state the cursor borrows.
func (c *Cursor) Close() error {
	return c.rows.Close()
}
