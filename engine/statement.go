package engine

import (
	"context"
	"database/sql"
)

// Statement is a prepared statement owned by its connection. Like cursors,
// a statement must not outlive the connection it was prepared on.
type Statement struct {
	stmt *sql.Stmt
	sql  string
}

// SQL returns the statement's source text.
func (s *Statement) SQL() string {
	return s.sql
}

// Query executes the statement with the given parameters and returns a
// cursor over the result.
func (s *Statement) Query(ctx context.Context, params ...any) (*Cursor, error) {
	rows, err := s.stmt.QueryContext(ctx, params...)
	if err != nil {
		return nil, err
	}
	return newCursor(rows)
}

// Exec executes the statement without producing a cursor.
func (s *Statement) Exec(ctx context.Context, params ...any) error {
	_, err := s.stmt.ExecContext(ctx, params...)
	return err
}

// Close releases the compiled statement.
func (s *Statement) Close() error {
	return s.stmt.Close()
}
