package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := FigureKey("confounds.tsv", 2.0, 4)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get() before Set = hit %v, err %v", hit, err)
	}

	payload := []byte("png-bytes")
	if err := c.Set(ctx, key, payload, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("Get() after Set = hit %v, err %v", hit, err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get() = %q, want %q", got, payload)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get() after Delete should miss")
	}

	// Deleting a missing key is fine.
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete() on missing key error = %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFigureKeyDeterministic(t *testing.T) {
	a := FigureKey("confounds.tsv", 2.0, true)
	b := FigureKey("confounds.tsv", 2.0, true)
	if a != b {
		t.Errorf("FigureKey not deterministic: %q vs %q", a, b)
	}

	if FigureKey("confounds.tsv", 2.0, true) == FigureKey("confounds.tsv", 2.0, false) {
		t.Error("different parts should produce different keys")
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("NullCache Get = hit %v, err %v; want miss", hit, err)
	}
}
