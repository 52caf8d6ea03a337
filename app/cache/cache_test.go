package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestGetOrCompute_ComputesOnceWithinTTL(t *testing.T) {
	c := New(NewMemoryStore())
	ctx := context.Background()

	computeCount := 0
	compute := func() ([]byte, error) {
		computeCount++
		return []byte(`{"data":"payload"}`), nil
	}

	first, err := c.GetOrCompute(ctx, "k", time.Minute, compute)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.GetOrCompute(ctx, "k", time.Minute, compute)
	if err != nil {
		t.Fatal(err)
	}

	if computeCount != 1 {
		t.Errorf("Expected a single compute within the TTL, got %d", computeCount)
	}
	if !bytes.Equal(first, second) {
		t.Error("Expected byte-identical payload from the cache hit")
	}
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	c := New(NewMemoryStore())
	ctx := context.Background()

	computeCount := 0
	failing := func() ([]byte, error) {
		computeCount++
		return nil, context.DeadlineExceeded
	}

	if _, err := c.GetOrCompute(ctx, "k", time.Minute, failing); err == nil {
		t.Fatal("Expected compute error to propagate")
	}
	if _, err := c.GetOrCompute(ctx, "k", time.Minute, failing); err == nil {
		t.Fatal("Expected compute error to propagate")
	}

	if computeCount != 2 {
		t.Errorf("Expected errors to bypass the cache, got %d computes", computeCount)
	}
}

func TestGetOrCompute_Disabled(t *testing.T) {
	c := Disabled()
	ctx := context.Background()

	computeCount := 0
	compute := func() ([]byte, error) {
		computeCount++
		return []byte("x"), nil
	}

	for i := 0; i < 3; i++ {
		if _, err := c.GetOrCompute(ctx, "k", time.Minute, compute); err != nil {
			t.Fatal(err)
		}
	}

	if computeCount != 3 {
		t.Errorf("Expected every call to compute with caching disabled, got %d", computeCount)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), 30*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Fatal("Expected hit before expiry")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("Expected miss after expiry")
	}
}
