package bridge

import (
	stderrors "errors"
	"testing"

	"github.com/Phonebooth/duckling/engine"
	"github.com/Phonebooth/duckling/errors"
)

func TestTranslate_Empty(t *testing.T) {
	opts, threads, err := translate(Settings{}, Lenient)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if threads != 0 {
		t.Errorf("expected no thread metadata, got %d", threads)
	}
	if got := opts.DSN(engine.InMemory); got != engine.InMemory {
		t.Errorf("empty settings must leave every engine default untouched, DSN %q", got)
	}
}

func TestTranslate_AllRecognized(t *testing.T) {
	opts, threads, err := translate(Settings{
		OptAccessMode:              "read_only",
		OptMaximumMemory:           1048576,
		OptMaximumThreads:          4,
		OptDefaultOrder:            "desc",
		OptDefaultNullOrder:        "nulls_last",
		OptEnableExternalAccess:    false,
		OptObjectCacheEnable:       true,
		OptAllowUnsignedExtensions: true,
	}, Lenient)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if threads != 4 {
		t.Errorf("expected thread metadata 4, got %d", threads)
	}
	if opts.Access != engine.AccessReadOnly {
		t.Errorf("access mode not translated: %q", opts.Access)
	}
	if opts.MaxMemoryBytes != 1048576 {
		t.Errorf("max memory not translated: %d", opts.MaxMemoryBytes)
	}
	if opts.DefaultOrder != engine.OrderDesc || opts.DefaultNullOrder != engine.NullsLast {
		t.Errorf("ordering not translated: %q %q", opts.DefaultOrder, opts.DefaultNullOrder)
	}
	if opts.ExternalAccess == nil || *opts.ExternalAccess {
		t.Error("external access not translated")
	}
	if opts.ObjectCache == nil || !*opts.ObjectCache {
		t.Error("object cache not translated")
	}
	if opts.AllowUnsignedExtensions == nil || !*opts.AllowUnsignedExtensions {
		t.Error("unsigned extensions not translated")
	}
}

func TestTranslate_UnrecognizedKeysIgnored(t *testing.T) {
	opts, _, err := translate(Settings{
		Option("favorite_color"): "green",
		OptMaximumThreads:        2,
	}, Strict)
	if err != nil {
		t.Fatalf("unrecognized key must be ignored even in strict mode: %v", err)
	}
	if opts.Threads != 2 {
		t.Errorf("recognized key alongside unrecognized one dropped: %d", opts.Threads)
	}
}

func TestTranslate_UnknownSymbolIgnored(t *testing.T) {
	opts, _, err := translate(Settings{OptAccessMode: "write_only"}, Strict)
	if err != nil {
		t.Fatalf("unknown symbol is not a decode failure: %v", err)
	}
	if opts.Access != "" {
		t.Errorf("unknown symbol must leave the default untouched: %q", opts.Access)
	}
}

func TestTranslate_MalformedValue(t *testing.T) {
	malformed := Settings{OptMaximumThreads: "four"}

	// Lenient drops the value and keeps the default.
	opts, threads, err := translate(malformed, Lenient)
	if err != nil {
		t.Fatalf("lenient translate failed: %v", err)
	}
	if threads != 0 || opts.Threads != 0 {
		t.Error("lenient mode must fall back to the engine default")
	}

	// Strict fails the open.
	_, _, err = translate(malformed, Strict)
	if err == nil {
		t.Fatal("strict mode must reject a malformed value")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindDecode}) {
		t.Fatalf("expected config decode error, got %v", err)
	}
}

func TestTranslate_NumericEncodings(t *testing.T) {
	for _, v := range []any{int(8), int32(8), int64(8), uint(8), uint32(8), uint64(8), float64(8)} {
		_, threads, err := translate(Settings{OptMaximumThreads: v}, Strict)
		if err != nil {
			t.Errorf("encoding %T rejected: %v", v, err)
			continue
		}
		if threads != 8 {
			t.Errorf("encoding %T decoded to %d", v, threads)
		}
	}

	for _, v := range []any{int(-1), float64(2.5), "8", true} {
		if _, _, err := translate(Settings{OptMaximumThreads: v}, Strict); err == nil {
			t.Errorf("malformed value %v (%T) accepted", v, v)
		}
	}
}
