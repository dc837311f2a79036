package engine

import (
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestOptions_DSN(t *testing.T) {
	tests := []struct {
		name string
		path string
		opts Options
		want string
	}{
		{
			name: "empty options leave path untouched",
			path: "/data/analytics.db",
			opts: Options{},
			want: "/data/analytics.db",
		},
		{
			name: "in-memory with threads",
			path: InMemory,
			opts: Options{Threads: 4},
			want: ":memory:?threads=4",
		},
		{
			name: "access mode read only",
			path: "/data/ro.db",
			opts: Options{Access: AccessReadOnly},
			want: "/data/ro.db?access_mode=read_only",
		},
		{
			name: "max memory rendered as bytes",
			path: InMemory,
			opts: Options{MaxMemoryBytes: 1 << 30},
			want: ":memory:?max_memory=1073741824b",
		},
		{
			name: "order and null order",
			path: InMemory,
			opts: Options{DefaultOrder: OrderDesc, DefaultNullOrder: NullsLast},
			want: ":memory:?default_order=desc&default_null_order=nulls_last",
		},
		{
			name: "booleans only rendered when set",
			path: InMemory,
			opts: Options{ExternalAccess: boolPtr(false), ObjectCache: boolPtr(true)},
			want: ":memory:?enable_external_access=false&enable_object_cache=true",
		},
		{
			name: "unsigned extensions only rendered when enabled",
			path: InMemory,
			opts: Options{AllowUnsignedExtensions: boolPtr(false)},
			want: ":memory:",
		},
		{
			name: "everything",
			path: "/data/full.db",
			opts: Options{
				Access:                  AccessReadWrite,
				MaxMemoryBytes:          1048576,
				Threads:                 2,
				DefaultOrder:            OrderAsc,
				DefaultNullOrder:        NullsFirst,
				ExternalAccess:          boolPtr(true),
				AllowUnsignedExtensions: boolPtr(true),
			},
			want: "/data/full.db?access_mode=read_write&max_memory=1048576b&threads=2&default_order=asc&default_null_order=nulls_first&enable_external_access=true&allow_unsigned_extensions=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.DSN(tt.path); got != tt.want {
				t.Errorf("DSN mismatch\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}
