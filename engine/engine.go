package engine

import (
	"context"
	"database/sql"
	"database/sql/driver"

	duckdb "github.com/marcboeker/go-duckdb/v2"
	"go.uber.org/zap"
)

// Conn is one open database instance. A Conn is not safe for concurrent use;
// the registry serializes access.
type Conn struct {
	db   *sql.DB
	path string
}

// Open opens a database at path with the given options. The InMemory path
// (or an empty path) opens a transient in-memory instance. Open failures
// carry the engine's own message text.
func Open(ctx context.Context, path string, opts Options) (*Conn, error) {
	if path == "" {
		path = InMemory
	}

	connector, err := duckdb.NewConnector(opts.DSN(path), nil)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	Logger().Debug("database opened",
		zap.String("path", path),
		zap.Uint32("threads", opts.Threads))
	return &Conn{db: db, path: path}, nil
}

// Path returns the path this connection was opened with.
func (c *Conn) Path() string {
	return c.path
}

// Query prepares sql, executes it with the given parameters, and returns a
// cursor over the result. The cursor borrows engine state derived from this
// connection; it must be closed before, or cascaded with, the connection.
func (c *Conn) Query(ctx context.Context, query string, params ...any) (*Cursor, error) {
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	return newCursor(rows)
}

// Exec executes sql without producing a cursor.
func (c *Conn) Exec(ctx context.Context, query string, params ...any) error {
	_, err := c.db.ExecContext(ctx, query, params...)
	return err
}

// Prepare compiles sql into a reusable statement owned by this connection.
func (c *Conn) Prepare(ctx context.Context, query string) (*Statement, error) {
	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Statement{stmt: stmt, sql: query}, nil
}

// Appender creates a native bulk appender for a table. The appender pins one
// engine connection until closed.
func (c *Conn) Appender(ctx context.Context, schema, table string) (*Appender, error) {
	sc, err := c.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var app *duckdb.Appender
	err = sc.Raw(func(dc any) error {
		driverConn, ok := dc.(driver.Conn)
		if !ok {
			return driver.ErrBadConn
		}
		var aerr error
		app, aerr = duckdb.NewAppenderFromConn(driverConn, schema, table)
		return aerr
	})
	if err != nil {
		sc.Close()
		return nil, err
	}
	return &Appender{conn: sc, app: app, table: table}, nil
}

// Version reports the engine library version, or an error when the native
// call fails.
func (c *Conn) Version(ctx context.Context) (string, error) {
	var version string
	if err := c.db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}

// Close drops the native database object. The engine flushes pending state
// as a consequence; cursors and statements derived from this connection must
// not be used afterwards.
func (c *Conn) Close() error {
	Logger().Debug("database closed", zap.String("path", c.path))
	return c.db.Close()
}
