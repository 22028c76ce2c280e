// Package storetest holds the conformance suite every store.Storage backend
// must pass.
package storetest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/ggoodman/strongtyping-go/store"
)

// Factory returns a fresh, empty storage. Cleanup is the factory's concern.
type Factory func(t *testing.T) store.Storage

// Run runs the whole suite against fresh storages built by newStorage.
func Run(t *testing.T, newStorage Factory) {
	t.Run("SetAndGet", func(t *testing.T) { testSetAndGet(t, newStorage(t)) })
	t.Run("GetNonExistent", func(t *testing.T) { testGetNonExistent(t, newStorage(t)) })
	t.Run("TTL", func(t *testing.T) { testTTL(t, newStorage(t)) })
	t.Run("Namespaces", func(t *testing.T) { testNamespaces(t, newStorage(t)) })
	t.Run("DeleteKey", func(t *testing.T) { testDeleteKey(t, newStorage(t)) })
	t.Run("DeleteNamespace", func(t *testing.T) { testDeleteNamespace(t, newStorage(t)) })
	t.Run("Keys", func(t *testing.T) { testKeys(t, newStorage(t)) })
	t.Run("InvalidOptions", func(t *testing.T) { testInvalidOptions(t, newStorage(t)) })
}

func testSetAndGet(t *testing.T, s store.Storage) {
	ctx := context.Background()
	data := []byte("test data")

	if err := s.Set(ctx, "test-key", data); err != nil {
		t.Fatalf("Failed to set data: %v", err)
	}
	item, err := s.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get data: %v", err)
	}
	if item == nil {
		t.Fatal("Expected item to exist, got nil")
	}
	if string(item.Data) != string(data) {
		t.Errorf("Expected data %s, got %s", data, item.Data)
	}
	if item.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}
	if item.ExpiresAt != nil {
		t.Error("ExpiresAt should be nil for data without TTL")
	}
}

func testGetNonExistent(t *testing.T, s store.Storage) {
	item, err := s.Get(context.Background(), "non-existent-key")
	if err != nil {
		t.Fatalf("Failed to get non-existent key: %v", err)
	}
	if item != nil {
		t.Error("Expected nil for non-existent key, got item")
	}
}

func testTTL(t *testing.T, s store.Storage) {
	ctx := context.Background()
	ttl := 100 * time.Millisecond

	if err := s.Set(ctx, "ttl-key", []byte("ttl data"), store.WithTTL(ttl)); err != nil {
		t.Fatalf("Failed to set data with TTL: %v", err)
	}
	item, err := s.Get(ctx, "ttl-key")
	if err != nil {
		t.Fatalf("Failed to get data: %v", err)
	}
	if item == nil {
		t.Fatal("Expected item to exist, got nil")
	}
	if item.ExpiresAt == nil {
		t.Fatal("ExpiresAt should not be nil for data with TTL")
	}

	time.Sleep(ttl + 50*time.Millisecond)

	item, err = s.Get(ctx, "ttl-key")
	if err != nil {
		t.Fatalf("Failed to get expired data: %v", err)
	}
	if item != nil {
		t.Error("Expected nil for expired data, got item")
	}
}

func testNamespaces(t *testing.T, s store.Storage) {
	ctx := context.Background()
	key := "namespace-key"

	if err := s.Set(ctx, key, []byte("global data")); err != nil {
		t.Fatalf("Failed to set global data: %v", err)
	}
	if err := s.Set(ctx, key, []byte("point data"), store.WithNamespace("Point")); err != nil {
		t.Fatalf("Failed to set namespaced data: %v", err)
	}

	item, err := s.Get(ctx, key)
	if err != nil || item == nil || string(item.Data) != "global data" {
		t.Fatalf("Expected global data, got %v (%v)", item, err)
	}
	item, err = s.Get(ctx, key, store.WithNamespace("Point"))
	if err != nil || item == nil || string(item.Data) != "point data" {
		t.Fatalf("Expected namespaced data, got %v (%v)", item, err)
	}
	item, err = s.Get(ctx, key, store.WithNamespace("Other"))
	if err != nil {
		t.Fatalf("Failed to get data for other namespace: %v", err)
	}
	if item != nil {
		t.Error("Expected nil for a different namespace, got item")
	}
}

func testDeleteKey(t *testing.T, s store.Storage) {
	ctx := context.Background()
	key := "delete-key"

	if err := s.Set(ctx, key, []byte("delete data")); err != nil {
		t.Fatalf("Failed to set data: %v", err)
	}
	if err := s.Delete(ctx, store.WithKey(key)); err != nil {
		t.Fatalf("Failed to delete key: %v", err)
	}
	item, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Failed to get data after deletion: %v", err)
	}
	if item != nil {
		t.Error("Expected nil after deletion, got item")
	}
	if err := s.Delete(ctx, store.WithKey(key)); err != nil {
		t.Fatalf("Deleting a missing key should not fail: %v", err)
	}
}

func testDeleteNamespace(t *testing.T, s store.Storage) {
	ctx := context.Background()
	keys := []string{"key1", "key2", "key3"}
	for _, key := range keys {
		if err := s.Set(ctx, key, []byte("data for "+key), store.WithNamespace("doomed")); err != nil {
			t.Fatalf("Failed to set data for key %s: %v", key, err)
		}
	}
	if err := s.Set(ctx, "key1", []byte("survivor"), store.WithNamespace("kept")); err != nil {
		t.Fatalf("Failed to set data: %v", err)
	}

	if err := s.Delete(ctx, store.WithNamespace("doomed")); err != nil {
		t.Fatalf("Failed to delete namespace: %v", err)
	}
	for _, key := range keys {
		item, err := s.Get(ctx, key, store.WithNamespace("doomed"))
		if err != nil {
			t.Fatalf("Failed to get data for key %s after deletion: %v", key, err)
		}
		if item != nil {
			t.Errorf("Expected nil after namespace deletion for key %s, got item", key)
		}
	}
	item, err := s.Get(ctx, "key1", store.WithNamespace("kept"))
	if err != nil || item == nil {
		t.Fatalf("Other namespaces must survive, got %v (%v)", item, err)
	}
}

func testKeys(t *testing.T, s store.Storage) {
	ctx := context.Background()
	for _, key := range []string{"b", "a", "c"} {
		if err := s.Set(ctx, key, []byte(key), store.WithNamespace("listed")); err != nil {
			t.Fatalf("Failed to set %s: %v", key, err)
		}
	}
	if err := s.Set(ctx, "z", []byte("z")); err != nil {
		t.Fatalf("Failed to set global key: %v", err)
	}

	keys, err := s.Keys(ctx, store.WithNamespace("listed"))
	if err != nil {
		t.Fatalf("Failed to list keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Fatalf("Expected [a b c], got %v", keys)
	}

	keys, err = s.Keys(ctx, store.WithNamespace("empty"))
	if err != nil {
		t.Fatalf("Failed to list keys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("Expected no keys, got %v", keys)
	}
}

func testInvalidOptions(t *testing.T, s store.Storage) {
	err := s.Set(context.Background(), "k", []byte("v"), store.WithKey("other"))
	if err != store.ErrInvalidOptions {
		t.Fatalf("Expected ErrInvalidOptions, got %v", err)
	}
}
