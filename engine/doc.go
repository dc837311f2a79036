// Package engine wraps the native analytical database behind a small
// capability surface: open a database with configuration, prepare and execute
// SQL, read cursor results, bulk-append rows, report the library version.
//
// The bridge treats the engine as an opaque collaborator. Nothing in this
// package is safe for concurrent use of a single object; serialization is the
// registry's job, not the engine's.
package engine
