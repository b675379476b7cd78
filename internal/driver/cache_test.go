package driver

import (
	"testing"

	"sluice/internal/ir"
	"sluice/internal/streamify"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := OpenCache("sluice-test")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := openTestCache(t)
	m := &ir.Module{Funcs: []*ir.Func{deviceFunc("a")}}
	vocab := streamify.DefaultVocabulary()

	key, err := HashConversion(m, vocab)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	var miss CachePayload
	if hit, err := c.Get(key, &miss); err != nil || hit {
		t.Fatalf("expected miss, hit=%v err=%v", hit, err)
	}

	payload := CachePayload{Module: m, Changed: []string{"a"}}
	if err := c.Put(key, &payload); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got CachePayload
	hit, err := c.Get(key, &got)
	if err != nil || !hit {
		t.Fatalf("expected hit, hit=%v err=%v", hit, err)
	}
	if len(got.Changed) != 1 || got.Changed[0] != "a" {
		t.Fatalf("changed = %v", got.Changed)
	}
	if got.Module == nil || got.Module.Lookup("a") == nil {
		t.Fatalf("module payload missing")
	}
}

func TestHashConversionVariesWithVocabulary(t *testing.T) {
	m := &ir.Module{Funcs: []*ir.Func{deviceFunc("a")}}

	all, err := HashConversion(m, streamify.DefaultVocabulary())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	narrow, err := HashConversion(m, &streamify.Vocabulary{Ops: map[ir.OpKind]bool{ir.OpAlloc: true}})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if all == narrow {
		t.Fatalf("different vocabularies hashed identically")
	}
}

func TestCacheDropAll(t *testing.T) {
	c := openTestCache(t)
	m := &ir.Module{Funcs: []*ir.Func{deviceFunc("a")}}
	key, err := HashConversion(m, streamify.DefaultVocabulary())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := c.Put(key, &CachePayload{Module: m}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	var got CachePayload
	if hit, err := c.Get(key, &got); err != nil || hit {
		t.Fatalf("cache not empty after drop, hit=%v err=%v", hit, err)
	}
}
