package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	k1 := Key([]byte("ab"), []byte("c"))
	k2 := Key([]byte("a"), []byte("bc"))
	if k1 == k2 {
		t.Error("expected length-prefixed parts to produce different keys")
	}
	if k1 != Key([]byte("ab"), []byte("c")) {
		t.Error("expected deterministic keys")
	}
	if !strings.HasPrefix(k1, keyVersion) {
		t.Errorf("expected version prefix, got %q", k1)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	val, ok := c.Get("k")
	if !ok || string(val) != "v" {
		t.Errorf("Get() = %q, %v", val, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Items != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Clear()
	if c.Stats().Items != 0 {
		t.Error("expected empty cache after clear")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key([]byte("curve"))

	if err := c.Set(key, []byte(`{"x":1}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get(key)
	if !ok || string(val) != `{"x":1}` {
		t.Errorf("Get() = %q, %v", val, ok)
	}

	// A fresh instance reads the same entry back.
	val, ok = NewDiskCache(dir, time.Hour).Get(key)
	if !ok || string(val) != `{"x":1}` {
		t.Errorf("expected persisted entry, got %q, %v", val, ok)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expected expired entry to be removed")
	}
}

func TestDiskCache_Corrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := os.WriteFile(c.path("k"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected corrupt entry to miss")
	}
}

func TestDiskCache_DeleteAndClear(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Delete("never-set"); err != nil {
		t.Errorf("expected no error deleting missing key, got %v", err)
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	other := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be cleared")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("expected unrelated file to survive Clear")
	}

	if err := NewDiskCache(filepath.Join(dir, "missing"), time.Hour).Clear(); err != nil {
		t.Errorf("expected no error clearing missing dir, got %v", err)
	}
}

func TestLayeredCache_Promotion(t *testing.T) {
	dir := t.TempDir()
	key := Key([]byte("promote"))

	if err := NewDiskCache(dir, time.Hour).Set(key, []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	val, ok := c.Get(key)
	if !ok || string(val) != "v" {
		t.Fatalf("expected disk hit, got %q, %v", val, ok)
	}
	if c.Stats().Items != 1 {
		t.Error("expected disk hit to be promoted into memory")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after clear")
	}
}

func TestLayeredCache_MemoryOnly(t *testing.T) {
	c := NewLayeredCache(time.Minute, "", 0)
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if val, ok := c.Get("k"); !ok || string(val) != "v" {
		t.Errorf("Get() = %q, %v", val, ok)
	}
	if err := c.Delete("k"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}
