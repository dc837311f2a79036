package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/Phonebooth/duckling/engine"
	"github.com/Phonebooth/duckling/errors"
)

// Prepare compiles sql on a connection and inserts the statement into the
// statement table, returning its identifier.
func (b *Bridge) Prepare(ctx context.Context, conn uint64, sql string) (uint64, error) {
	var id uint64
	err := b.conns.With(conn, func(c *engine.Conn) error {
		stmt, err := c.Prepare(ctx, sql)
		if err != nil {
			return errors.Native(errors.PhasePrepare, err)
		}
		id = b.statements.Insert(stmt, OwnerMeta{Conn: conn})
		return nil
	})
	if err != nil {
		return 0, err
	}
	Logger().Debug("statement prepared", zap.Uint64("conn", conn), zap.Uint64("statement", id))
	return id, nil
}

// ExecuteStatement runs a prepared statement with the given parameters and
// inserts the resulting cursor, owned by the statement's connection.
func (b *Bridge) ExecuteStatement(ctx context.Context, stmt uint64, params []any) (uint64, error) {
	meta, err := b.statements.Meta(stmt)
	if err != nil {
		return 0, err
	}

	var id uint64
	err = b.statements.With(stmt, func(s *engine.Statement) error {
		cur, err := s.Query(ctx, params...)
		if err != nil {
			return errors.Native(errors.PhasePrepare, err)
		}
		id = b.cursors.Insert(cur, OwnerMeta{Conn: meta.Conn})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CloseStatement removes a statement slot and drops the compiled statement.
// Absent identifiers are a no-op success.
func (b *Bridge) CloseStatement(ctx context.Context, id uint64) error {
	stmt, ok := b.statements.Remove(id)
	if !ok {
		return nil
	}
	if err := stmt.Close(); err != nil {
		Logger().Warn("statement close failed", zap.Uint64("statement", id), zap.Error(err))
	}
	return nil
}

// ColumnNames returns a cursor's column names in output order.
func (b *Bridge) ColumnNames(ctx context.Context, cursor uint64) ([]string, error) {
	var cols []string
	err := b.cursors.With(cursor, func(c *engine.Cursor) error {
		cols = c.Columns()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cols, nil
}

// Fetch reads up to n rows from a cursor, fewer when exhausted. A negative n
// reads everything remaining.
func (b *Bridge) Fetch(ctx context.Context, cursor uint64, n int) ([][]any, error) {
	var rows [][]any
	err := b.cursors.With(cursor, func(c *engine.Cursor) error {
		fetched, err := c.Fetch(n)
		if err != nil {
			return errors.Native(errors.PhaseFetch, err)
		}
		rows = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchAll reads every remaining row from a cursor.
func (b *Bridge) FetchAll(ctx context.Context, cursor uint64) ([][]any, error) {
	return b.Fetch(ctx, cursor, -1)
}

// CloseCursor removes a cursor slot and releases its borrowed engine state.
// Absent identifiers are a no-op success.
func (b *Bridge) CloseCursor(ctx context.Context, id uint64) error {
	cur, ok := b.cursors.Remove(id)
	if !ok {
		return nil
	}
	if err := cur.Close(); err != nil {
		Logger().Warn("cursor close failed", zap.Uint64("cursor", id), zap.Error(err))
	}
	return nil
}

// Appender creates a native bulk appender for a table on a connection and
// inserts it into the appender table.
func (b *Bridge) Appender(ctx context.Context, conn uint64, table string) (uint64, error) {
	var id uint64
	err := b.conns.With(conn, func(c *engine.Conn) error {
		app, err := c.Appender(ctx, "", table)
		if err != nil {
			return errors.Native(errors.PhaseAppend, err)
		}
		id = b.appenders.Insert(app, OwnerMeta{Conn: conn})
		return nil
	})
	if err != nil {
		return 0, err
	}
	Logger().Debug("appender created",
		zap.Uint64("conn", conn), zap.Uint64("appender", id), zap.String("table", table))
	return id, nil
}

// AppendRow buffers one row on an appender.
func (b *Bridge) AppendRow(ctx context.Context, appender uint64, values []any) error {
	return b.appenders.With(appender, func(a *engine.Appender) error {
		if err := a.AppendRow(values...); err != nil {
			return errors.Native(errors.PhaseAppend, err)
		}
		return nil
	})
}

// AppendRows buffers several rows on an appender. The first failing row
// aborts the call; earlier rows stay buffered.
func (b *Bridge) AppendRows(ctx context.Context, appender uint64, rows [][]any) error {
	return b.appenders.With(appender, func(a *engine.Appender) error {
		for _, row := range rows {
			if err := a.AppendRow(row...); err != nil {
				return errors.Native(errors.PhaseAppend, err)
			}
		}
		return nil
	})
}

// FlushAppender pushes buffered rows into the target table.
func (b *Bridge) FlushAppender(ctx context.Context, appender uint64) error {
	return b.appenders.With(appender, func(a *engine.Appender) error {
		if err := a.Flush(); err != nil {
			return errors.Native(errors.PhaseAppend, err)
		}
		return nil
	})
}

// CloseAppender removes an appender slot, flushing buffered rows as part of
// the native close. Absent identifiers are a no-op success.
func (b *Bridge) CloseAppender(ctx context.Context, id uint64) error {
	app, ok := b.appenders.Remove(id)
	if !ok {
		return nil
	}
	if err := app.Close(); err != nil {
		Logger().Warn("appender close failed", zap.Uint64("appender", id), zap.Error(err))
		return errors.Native(errors.PhaseAppend, err)
	}
	return nil
}
