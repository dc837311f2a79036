package engine

import (
	"database/sql"
	"database/sql/driver"

	duckdb "github.com/marcboeker/go-duckdb/v2"
)

// Appender bulk-loads rows into one table through the engine's native append
// path. It pins a dedicated engine connection for its whole lifetime; Close
// flushes pending rows and releases the connection.
type Appender struct {
	conn  *sql.Conn
	app   *duckdb.Appender
	table string
}

// Table returns the target table name.
func (a *Appender) Table() string {
	return a.table
}

// AppendRow buffers one row. Values must match the table's column order.
func (a *Appender) AppendRow(values ...any) error {
	args := make([]driver.Value, len(values))
	for i, v := range values {
		args[i] = v
	}
	return a.app.AppendRow(args...)
}

// Flush pushes buffered rows into the table.
func (a *Appender) Flush() error {
	return a.app.Flush()
}

// Close flushes remaining rows, drops the native appender and releases the
// pinned connection. The first error wins; the connection is released
// regardless.
func (a *Appender) Close() error {
	err := a.app.Close()
	if cerr := a.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
