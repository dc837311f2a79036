package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/Phonebooth/duckling/engine"
	"github.com/Phonebooth/duckling/errors"
	"github.com/Phonebooth/duckling/registry"
)

// ConnMeta is the immutable metadata recorded with a connection slot.
type ConnMeta struct {
	// Threads is the worker-thread count resolved at open time, 0 when the
	// open request did not configure one. This is the recorded value, not a
	// live engine reading.
	Threads uint32
}

// OwnerMeta is the metadata recorded with every derived resource slot: the
// identifier of the connection it borrows from.
type OwnerMeta struct {
	Conn uint64
}

// Config holds Bridge construction options.
type Config struct {
	// Validation selects the policy for malformed configuration values on
	// Open. Defaults to Lenient.
	Validation ValidationMode
}

// Bridge owns the process-wide resource tables and implements the boundary
// operations. Create with New, then call Init exactly once before use.
type Bridge struct {
	conns      *registry.Table[*engine.Conn, ConnMeta]
	cursors    *registry.Table[*engine.Cursor, OwnerMeta]
	statements *registry.Table[*engine.Statement, OwnerMeta]
	appenders  *registry.Table[*engine.Appender, OwnerMeta]
	validation ValidationMode
}

// New creates a Bridge with default configuration.
func New() *Bridge {
	return NewWithConfig(nil)
}

// NewWithConfig creates a Bridge with custom configuration.
func NewWithConfig(cfg *Config) *Bridge {
	b := &Bridge{
		conns:      registry.NewTable[*engine.Conn, ConnMeta]("connection"),
		cursors:    registry.NewTable[*engine.Cursor, OwnerMeta]("cursor"),
		statements: registry.NewTable[*engine.Statement, OwnerMeta]("statement"),
		appenders:  registry.NewTable[*engine.Appender, OwnerMeta]("appender"),
	}
	if cfg != nil {
		b.validation = cfg.Validation
	}
	return b
}

// Init creates the empty resource tables. The host invokes this exactly once
// before any other operation; a second call reports an initialization
// conflict.
func (b *Bridge) Init() error {
	for _, init := range []func() error{
		b.conns.Init,
		b.cursors.Init,
		b.statements.Init,
		b.appenders.Init,
	} {
		if err := init(); err != nil {
			return err
		}
	}
	return nil
}

// Open translates the sparse settings, opens a native connection and inserts
// it as a new slot, returning the connection identifier. On engine failure
// the engine's message is preserved and no slot is created.
func (b *Bridge) Open(ctx context.Context, path string, cfg Settings) (uint64, error) {
	opts, threads, err := translate(cfg, b.validation)
	if err != nil {
		return 0, err
	}

	conn, err := engine.Open(ctx, path, opts)
	if err != nil {
		return 0, errors.Native(errors.PhaseOpen, err)
	}

	id := b.conns.Insert(conn, ConnMeta{Threads: threads})
	Logger().Debug("connection opened",
		zap.Uint64("conn", id),
		zap.String("path", path),
		zap.Uint32("threads", threads))
	return id, nil
}

// Close removes the connection's slot and drops its native object. Closing an
// absent identifier is a no-op success. Every derived resource owned by the
// connection is removed and dropped first, so no cursor, statement or
// appender identifier survives its parent.
func (b *Bridge) Close(ctx context.Context, id uint64) error {
	conn, ok := b.conns.Remove(id)
	if !ok {
		return nil
	}

	b.closeDerived(id)

	if err := conn.Close(); err != nil {
		Logger().Warn("native close failed",
			zap.Uint64("conn", id), zap.Error(err))
	}
	Logger().Debug("connection closed", zap.Uint64("conn", id))
	return nil
}

// closeDerived sweeps and drops every derived slot owned by conn. The
// connection slot is already removed, so no new derived resource can be
// created through it. Statements go before cursors: an in-flight
// ExecuteStatement may still insert a cursor, and the statement sweep
// serializes after it, so the later cursor sweep observes that cursor.
func (b *Bridge) closeDerived(conn uint64) {
	owned := func(_ uint64, meta OwnerMeta) bool { return meta.Conn == conn }

	for _, stmt := range b.statements.Sweep(owned) {
		if err := stmt.Close(); err != nil {
			Logger().Warn("statement close failed", zap.Uint64("conn", conn), zap.Error(err))
		}
	}
	for _, app := range b.appenders.Sweep(owned) {
		if err := app.Close(); err != nil {
			Logger().Warn("appender close failed", zap.Uint64("conn", conn), zap.Error(err))
		}
	}
	for _, cur := range b.cursors.Sweep(owned) {
		if err := cur.Close(); err != nil {
			Logger().Warn("cursor close failed", zap.Uint64("conn", conn), zap.Error(err))
		}
	}
}

// Query prepares and executes sql against a connection while holding its
// slot, inserting the resulting cursor into the cursor table. The cursor
// identifier is returned; params may be nil.
func (b *Bridge) Query(ctx context.Context, conn uint64, sql string, params []any) (uint64, error) {
	var id uint64
	err := b.conns.With(conn, func(c *engine.Conn) error {
		cur, err := c.Query(ctx, sql, params...)
		if err != nil {
			return errors.Native(errors.PhaseQuery, err)
		}
		// Inserting under the connection's slot lock keeps a concurrent
		// Close from observing the cursor before its owner link exists.
		id = b.cursors.Insert(cur, OwnerMeta{Conn: conn})
		return nil
	})
	if err != nil {
		return 0, err
	}
	Logger().Debug("cursor created", zap.Uint64("conn", conn), zap.Uint64("cursor", id))
	return id, nil
}

// LibraryVersion reports the engine library version through a connection.
// Returns the empty string when the identifier is invalid or the native call
// fails.
func (b *Bridge) LibraryVersion(ctx context.Context, conn uint64) string {
	var version string
	err := b.conns.With(conn, func(c *engine.Conn) error {
		v, err := c.Version(ctx)
		if err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		return ""
	}
	return version
}

// ThreadCount returns the worker-thread count recorded at open time.
func (b *Bridge) ThreadCount(ctx context.Context, conn uint64) (uint32, error) {
	meta, err := b.conns.Meta(conn)
	if err != nil {
		return 0, err
	}
	return meta.Threads, nil
}

// ConnectionCount returns the number of live connection slots.
func (b *Bridge) ConnectionCount() int {
	return b.conns.Len()
}
