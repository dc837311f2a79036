package registry

import (
	"fmt"
	"math"
	"sync"

	"github.com/Phonebooth/duckling/errors"
)

// Table maps opaque uint64 identifiers to slots holding one native object of
// type T plus immutable metadata of type M. The zero value is not usable;
// create with NewTable and call Init before any other operation.
type Table[T, M any] struct {
	mu      sync.RWMutex
	entries map[uint64]*slot[T, M]
	nextID  uint64
	class   string
}

// slot owns one native object behind its own mutex. meta is fixed at insert
// time and readable without the slot mutex.
type slot[T, M any] struct {
	mu    sync.Mutex
	value T
	meta  M
}

// NewTable creates an uninitialized table for one resource class. The class
// name appears in error messages and panics only.
func NewTable[T, M any](class string) *Table[T, M] {
	return &Table[T, M]{class: class}
}

// Init creates the empty entry map. Calling Init twice is an initialization
// conflict and returns an error; every other operation before Init panics.
func (t *Table[T, M]) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.entries != nil {
		return errors.AlreadyInitialized(t.class)
	}
	t.entries = make(map[uint64]*slot[T, M])
	return nil
}

// Class returns the resource class name this table was created with.
func (t *Table[T, M]) Class() string {
	return t.class
}

// Insert stores a native object with its metadata and returns the new
// identifier. Identifiers start at 1, strictly increase, and are never
// reused. Callers construct the native object before calling Insert; the
// table lock covers bookkeeping only.
func (t *Table[T, M]) Insert(value T, meta M) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkInit()

	if t.nextID == math.MaxUint64 {
		// Wrapping would alias a previously issued identifier.
		panic(fmt.Sprintf("registry: %s identifier space exhausted", t.class))
	}
	t.nextID++
	t.entries[t.nextID] = &slot[T, M]{value: value, meta: meta}
	return t.nextID
}

// With looks up id under shared table access, then invokes fn with the slot's
// own mutex held. This is the only way callers touch a native object. The
// shared table lock is held until fn returns, so a concurrent Remove of the
// same identifier serializes after the call. Returns a not-found error when
// the identifier is absent.
func (t *Table[T, M]) With(id uint64, fn func(value T) error) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.checkInit()

	s, ok := t.entries[id]
	if !ok {
		return errors.NotFound(errors.PhaseRegistry, t.class, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.value)
}

// Meta returns the metadata recorded at insert time. Metadata is immutable,
// so no slot mutex is taken; a concurrent With on the same identifier does
// not block this call.
func (t *Table[T, M]) Meta(id uint64) (M, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.checkInit()

	s, ok := t.entries[id]
	if !ok {
		var zero M
		return zero, errors.NotFound(errors.PhaseRegistry, t.class, id)
	}
	return s.meta, nil
}

// Remove deletes the slot and returns its native object for the caller to
// drop. Returns false when the identifier is absent; removing an absent
// identifier is not an error. The exclusive table lock serializes removal
// against every in-flight With, so the returned object has no concurrent
// user.
func (t *Table[T, M]) Remove(id uint64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkInit()

	s, ok := t.entries[id]
	if !ok {
		var zero T
		return zero, false
	}
	delete(t.entries, id)
	return s.value, true
}

// Sweep removes every slot whose metadata matches pred under one exclusive
// table lock and returns the removed native objects for the caller to drop.
// Used to cascade removal of derived resources when their owner goes away.
func (t *Table[T, M]) Sweep(pred func(id uint64, meta M) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkInit()

	var removed []T
	for id, s := range t.entries {
		if pred(id, s.meta) {
			delete(t.entries, id)
			removed = append(removed, s.value)
		}
	}
	return removed
}

// Len returns the number of live slots.
func (t *Table[T, M]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.checkInit()
	return len(t.entries)
}

// checkInit panics when the table has not been through Init. Operating on an
// uninitialized table is a programming error in the process lifecycle, not a
// recoverable caller failure.
func (t *Table[T, M]) checkInit() {
	if t.entries == nil {
		panic(fmt.Sprintf("registry: %s table used before Init", t.class))
	}
}
