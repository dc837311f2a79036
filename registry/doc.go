// Package registry provides process-wide handle tables for native engine
// objects.
//
// Native connections, cursors, statements and appenders cannot cross the host
// boundary directly: the boundary only carries values with unbounded lifetime,
// while the engine's derived objects borrow from their owning connection. The
// registry resolves the mismatch with indirection: every native object lives
// in a table slot behind an opaque uint64 identifier, and removal of the slot
// is the sole destructor trigger.
//
// # Handle Table
//
// One Table per resource class, each with a disjoint identifier space:
//
//	conns := registry.NewTable[*engine.Conn, ConnMeta]("connection")
//	if err := conns.Init(); err != nil { ... }
//
//	id := conns.Insert(conn, ConnMeta{Threads: 4})
//
//	err := conns.With(id, func(c *engine.Conn) error {
//		// exclusive access to the native object
//		return nil
//	})
//
//	if c, ok := conns.Remove(id); ok {
//		c.Close()
//	}
//
// # Locking Discipline
//
// Two levels. The table's readers-writer lock gates structural mutation
// (Insert, Remove, Sweep) against concurrent use: With holds shared table
// access for the whole operation, so a structural change never observes an
// in-flight use. The slot's own mutex serializes all use of one specific
// native object, including purely-reading callers.
//
// Identifiers are strictly increasing from 1 and are never reused, even after
// removal; 0 is reserved and always invalid. An identifier is valid exactly
// while its slot is present; validity is checked at lookup, never cached.
//
// # Lifecycle
//
// A Table is created uninitialized. Init must be called exactly once before
// any other operation; a second Init reports an initialization conflict, and
// any operation before Init panics.
package registry
