package wasmhost

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/Phonebooth/duckling/bridge"
)

// ModuleName is the host module's import namespace.
const ModuleName = "phonebooth:duckling"

// memory is the subset of api.Memory the host functions touch. Narrowed for
// testability.
type memory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
}

// host adapts bridge operations to the stack-and-linear-memory calling
// convention.
type host struct {
	bridge  *bridge.Bridge
	mu      sync.Mutex
	lastErr string
}

// Register instantiates the host module into the runtime. The bridge must be
// initialized before guests call into it.
func Register(ctx context.Context, rt wazero.Runtime, b *bridge.Bridge) (api.Module, error) {
	h := &host{bridge: b}

	i32 := api.ValueTypeI32
	i64 := api.ValueTypeI64

	builder := rt.NewHostModuleBuilder(ModuleName)
	export := func(name string, fn func(context.Context, memory, []uint64), params, results []api.ValueType) {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				fn(ctx, mod.Memory(), stack)
			}), params, results).
			Export(name)
	}

	export("open", h.open, []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i64})
	export("close", h.close, []api.ValueType{i64}, nil)
	export("query", h.query, []api.ValueType{i64, i32, i32}, []api.ValueType{i64})
	export("library_version", h.libraryVersion, []api.ValueType{i64, i32, i32}, []api.ValueType{i32})
	export("thread_count", h.threadCount, []api.ValueType{i64}, []api.ValueType{i32})
	export("last_error", h.lastError, []api.ValueType{i32, i32}, []api.ValueType{i32})

	return builder.Instantiate(ctx)
}

func (h *host) setErr(err error) {
	h.mu.Lock()
	h.lastErr = err.Error()
	h.mu.Unlock()
}

// readString copies a (pointer, length) pair out of guest memory.
func readString(mem memory, ptr, length uint32) (string, bool) {
	if length == 0 {
		return "", true
	}
	data, ok := mem.Read(ptr, length)
	if !ok {
		return "", false
	}
	return string(data), true
}

// open decodes the path and JSON settings from guest memory and opens a
// connection, returning its identifier or 0 on failure.
func (h *host) open(ctx context.Context, mem memory, stack []uint64) {
	path, ok1 := readString(mem, uint32(stack[0]), uint32(stack[1]))
	cfgText, ok2 := readString(mem, uint32(stack[2]), uint32(stack[3]))
	if !ok1 || !ok2 {
		h.setErr(errOutOfRange)
		stack[0] = 0
		return
	}

	cfg, err := decodeSettings(cfgText)
	if err != nil {
		h.setErr(err)
		stack[0] = 0
		return
	}

	id, err := h.bridge.Open(ctx, path, cfg)
	if err != nil {
		h.setErr(err)
		stack[0] = 0
		return
	}
	stack[0] = id
}

// close removes a connection slot. Always acknowledges, matching the
// bridge's idempotent close.
func (h *host) close(ctx context.Context, _ memory, stack []uint64) {
	if err := h.bridge.Close(ctx, stack[0]); err != nil {
		Logger().Warn("close failed", zap.Uint64("conn", stack[0]), zap.Error(err))
	}
}

// query executes SQL on a connection and returns the cursor identifier, or 0
// on failure.
func (h *host) query(ctx context.Context, mem memory, stack []uint64) {
	conn := stack[0]
	sql, ok := readString(mem, uint32(stack[1]), uint32(stack[2]))
	if !ok {
		h.setErr(errOutOfRange)
		stack[0] = 0
		return
	}

	id, err := h.bridge.Query(ctx, conn, sql, nil)
	if err != nil {
		h.setErr(err)
		stack[0] = 0
		return
	}
	stack[0] = id
}

// libraryVersion writes the engine version into the guest buffer and returns
// the number of bytes written; 0 when the native call fails or the
// identifier is invalid.
func (h *host) libraryVersion(ctx context.Context, mem memory, stack []uint64) {
	version := h.bridge.LibraryVersion(ctx, stack[0])
	stack[0] = api.EncodeI32(writeBounded(mem, uint32(stack[1]), uint32(stack[2]), version))
}

// threadCount returns the thread count recorded when the connection was
// opened, or 0 for an invalid identifier.
func (h *host) threadCount(ctx context.Context, _ memory, stack []uint64) {
	n, err := h.bridge.ThreadCount(ctx, stack[0])
	if err != nil {
		h.setErr(err)
		stack[0] = 0
		return
	}
	stack[0] = api.EncodeI32(int32(n))
}

// lastError writes the most recent error message into the guest buffer and
// returns the message's full length, so a guest with a short buffer can
// retry. The message is kept until overwritten by a later failure.
func (h *host) lastError(_ context.Context, mem memory, stack []uint64) {
	h.mu.Lock()
	msg := h.lastErr
	h.mu.Unlock()

	written := writeBounded(mem, uint32(stack[0]), uint32(stack[1]), msg)
	if written >= 0 && int(written) < len(msg) {
		written = int32(len(msg))
	}
	stack[0] = api.EncodeI32(written)
}

// writeBounded copies at most bufLen bytes of s into guest memory at ptr,
// returning the byte count written or -1 when the buffer is out of range.
func writeBounded(mem memory, ptr, bufLen uint32, s string) int32 {
	if s == "" || bufLen == 0 {
		return 0
	}
	data := []byte(s)
	if uint32(len(data)) > bufLen {
		data = data[:bufLen]
	}
	if !mem.Write(ptr, data) {
		return -1
	}
	return int32(len(data))
}

// decodeSettings parses the JSON configuration object that crosses the guest
// boundary. An empty string is an empty configuration.
func decodeSettings(text string) (bridge.Settings, error) {
	if text == "" {
		return nil, nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}
	cfg := make(bridge.Settings, len(raw))
	for k, v := range raw {
		cfg[bridge.Option(k)] = v
	}
	return cfg, nil
}
