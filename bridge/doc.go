// Package bridge exposes the database engine across the host boundary as
// operations on opaque uint64 identifiers.
//
// A Bridge owns one registry table per resource class: connections, query
// cursors, prepared statements and bulk appenders. Creation operations build
// the native object first, then insert it as a slot; use operations resolve
// an identifier through the table's shared lock and the slot's mutex; close
// operations remove the slot, and removal is the sole destructor trigger.
//
//	b := bridge.New()
//	if err := b.Init(); err != nil { ... }
//
//	id, err := b.Open(ctx, engine.InMemory, bridge.Settings{
//		bridge.OptMaximumThreads: 4,
//	})
//	cur, err := b.Query(ctx, id, "SELECT 42", nil)
//	rows, err := b.FetchAll(ctx, cur)
//	_ = b.Close(ctx, id)
//
// Derived resources (cursors, statements, appenders) record their owning
// connection. Closing a connection cascades: every derived slot owned by it
// is removed and dropped before the connection's own native object, so a
// derived identifier never outlives its parent.
package bridge
