package engine

import (
	"fmt"
	"strings"
)

// InMemory is the distinguished path that opens a transient in-memory
// database instead of a file-backed one. Every open with this path yields an
// independent instance.
const InMemory = ":memory:"

// AccessMode controls how the database file may be opened.
type AccessMode string

const (
	AccessAutomatic AccessMode = "automatic"
	AccessReadOnly  AccessMode = "read_only"
	AccessReadWrite AccessMode = "read_write"
)

// Order is the default sort direction for ORDER BY without a direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// NullOrder is the default placement of NULLs in sorted output.
type NullOrder string

const (
	NullsFirst NullOrder = "nulls_first"
	NullsLast  NullOrder = "nulls_last"
)

// Options is the sparse engine configuration. Zero values (and nil pointers)
// leave the corresponding engine default untouched.
type Options struct {
	// Access controls read-only versus read-write opening.
	Access AccessMode

	// MaxMemoryBytes caps the engine's memory use, in bytes.
	MaxMemoryBytes uint64

	// Threads caps the engine's worker thread count.
	Threads uint32

	// DefaultOrder sets the implicit ORDER BY direction.
	DefaultOrder Order

	// DefaultNullOrder sets the implicit NULL placement.
	DefaultNullOrder NullOrder

	// ExternalAccess enables access to external state (files, extensions).
	ExternalAccess *bool

	// ObjectCache enables caching of compiled objects such as parquet
	// metadata.
	ObjectCache *bool

	// AllowUnsignedExtensions permits loading extensions without a valid
	// signature.
	AllowUnsignedExtensions *bool
}

// DSN renders the path plus every set option as an engine connection string.
// Settings appear in a fixed order so the result is deterministic.
func (o Options) DSN(path string) string {
	var settings []string
	add := func(key, value string) {
		settings = append(settings, key+"="+value)
	}

	if o.Access != "" {
		add("access_mode", string(o.Access))
	}
	if o.MaxMemoryBytes != 0 {
		// The engine parses a bare "b" suffix as bytes.
		add("max_memory", fmt.Sprintf("%db", o.MaxMemoryBytes))
	}
	if o.Threads != 0 {
		add("threads", fmt.Sprintf("%d", o.Threads))
	}
	if o.DefaultOrder != "" {
		add("default_order", string(o.DefaultOrder))
	}
	if o.DefaultNullOrder != "" {
		add("default_null_order", string(o.DefaultNullOrder))
	}
	if o.ExternalAccess != nil {
		add("enable_external_access", fmt.Sprintf("%t", *o.ExternalAccess))
	}
	if o.ObjectCache != nil {
		add("enable_object_cache", fmt.Sprintf("%t", *o.ObjectCache))
	}
	if o.AllowUnsignedExtensions != nil && *o.AllowUnsignedExtensions {
		add("allow_unsigned_extensions", "true")
	}

	if len(settings) == 0 {
		return path
	}
	return path + "?" + strings.Join(settings, "&")
}
