// Package wasmhost exposes the bridge to sandboxed WebAssembly guests as a
// wazero host module.
//
// The module exports C-style functions over linear memory: strings cross the
// boundary as (pointer, length) pairs, resources as the bridge's uint64
// identifiers, and configuration as a JSON object of the recognized symbolic
// keys. Functions that can fail return 0 and record a message retrievable
// with last_error.
//
//	rt := wazero.NewRuntime(ctx)
//	mod, err := wasmhost.Register(ctx, rt, b)
//
// Exported functions:
//
//	open(path_ptr, path_len, cfg_ptr, cfg_len: i32) -> i64
//	close(id: i64)
//	query(id: i64, sql_ptr, sql_len: i32) -> i64
//	library_version(id: i64, buf_ptr, buf_len: i32) -> i32
//	thread_count(id: i64) -> i32
//	last_error(buf_ptr, buf_len: i32) -> i32
package wasmhost
