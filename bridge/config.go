package bridge

import (
	"go.uber.org/zap"

	"github.com/Phonebooth/duckling/engine"
	"github.com/Phonebooth/duckling/errors"
)

// Option is a recognized symbolic configuration key. Keys absent from a
// Settings map leave the corresponding engine default untouched; keys outside
// this set are ignored.
type Option string

const (
	OptAccessMode              Option = "access_mode"
	OptMaximumMemory           Option = "maximum_memory"
	OptMaximumThreads          Option = "maximum_threads"
	OptDefaultOrder            Option = "default_order_type"
	OptDefaultNullOrder        Option = "default_null_order"
	OptEnableExternalAccess    Option = "enable_external_access"
	OptObjectCacheEnable       Option = "object_cache_enable"
	OptAllowUnsignedExtensions Option = "allow_unsigned_extensions"
)

// Settings is the sparse, loosely typed configuration object that crosses the
// host boundary with an open request.
type Settings map[Option]any

// ValidationMode names the policy for a recognized key whose value fails to
// decode to its expected type.
type ValidationMode int

const (
	// Lenient drops the malformed value and keeps the engine default.
	Lenient ValidationMode = iota

	// Strict fails the open with a config decode error.
	Strict
)

// translate converts boundary settings into engine options, returning the
// resolved worker-thread count for slot metadata (0 when not configured).
func translate(s Settings, mode ValidationMode) (engine.Options, uint32, error) {
	var opts engine.Options
	var threads uint32

	fail := func(key Option, value any, want string) error {
		if mode == Strict {
			return errors.Decode(string(key), value, want)
		}
		Logger().Debug("dropping malformed option value",
			zap.String("option", string(key)),
			zap.Any("value", value))
		return nil
	}

	if v, ok := s[OptAccessMode]; ok {
		sym, ok := v.(string)
		if !ok {
			if err := fail(OptAccessMode, v, "symbol"); err != nil {
				return opts, 0, err
			}
		} else {
			// Unknown symbols leave the default untouched.
			switch engine.AccessMode(sym) {
			case engine.AccessAutomatic, engine.AccessReadOnly, engine.AccessReadWrite:
				opts.Access = engine.AccessMode(sym)
			}
		}
	}

	if v, ok := s[OptMaximumMemory]; ok {
		n, ok := asUint64(v)
		if !ok {
			if err := fail(OptMaximumMemory, v, "bytes"); err != nil {
				return opts, 0, err
			}
		} else {
			opts.MaxMemoryBytes = n
		}
	}

	if v, ok := s[OptMaximumThreads]; ok {
		n, ok := asUint64(v)
		if !ok || n > 1<<31 {
			if err := fail(OptMaximumThreads, v, "uint32"); err != nil {
				return opts, 0, err
			}
		} else {
			threads = uint32(n)
			opts.Threads = uint32(n)
		}
	}

	if v, ok := s[OptDefaultOrder]; ok {
		sym, ok := v.(string)
		if !ok {
			if err := fail(OptDefaultOrder, v, "symbol"); err != nil {
				return opts, 0, err
			}
		} else {
			switch engine.Order(sym) {
			case engine.OrderAsc, engine.OrderDesc:
				opts.DefaultOrder = engine.Order(sym)
			}
		}
	}

	if v, ok := s[OptDefaultNullOrder]; ok {
		sym, ok := v.(string)
		if !ok {
			if err := fail(OptDefaultNullOrder, v, "symbol"); err != nil {
				return opts, 0, err
			}
		} else {
			switch engine.NullOrder(sym) {
			case engine.NullsFirst, engine.NullsLast:
				opts.DefaultNullOrder = engine.NullOrder(sym)
			}
		}
	}

	boolOpts := []struct {
		key Option
		dst **bool
	}{
		{OptEnableExternalAccess, &opts.ExternalAccess},
		{OptObjectCacheEnable, &opts.ObjectCache},
		{OptAllowUnsignedExtensions, &opts.AllowUnsignedExtensions},
	}
	for _, bo := range boolOpts {
		v, ok := s[bo.key]
		if !ok {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			if err := fail(bo.key, v, "bool"); err != nil {
				return opts, 0, err
			}
			continue
		}
		val := b
		*bo.dst = &val
	}

	return opts, threads, nil
}

// asUint64 accepts the numeric encodings a host term can arrive as.
func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint32:
		return uint64(n), true
	case uint:
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int32:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}
