// Package memory provides an in-memory implementation of store.Storage
// backed by github.com/hashicorp/golang-lru/v2, with TTL support.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ggoodman/strongtyping-go/store"
)

// Storage implements store.Storage in memory. The least recently used items
// are evicted once maxItems is reached.
type Storage struct {
	mu    sync.RWMutex
	cache *lru.Cache[string, *store.Item]

	stop chan struct{}
	once sync.Once
}

// New creates a new in-memory storage implementation
func New(maxItems int) (*Storage, error) {
	cache, err := lru.New[string, *store.Item](maxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	s := &Storage{
		cache: cache,
		stop:  make(chan struct{}),
	}

	go s.cleanupExpired(5 * time.Minute)

	return s, nil
}

// Get retrieves data for a specific key within the given namespace
func (s *Storage) Get(ctx context.Context, key string, opts ...store.Option) (*store.Item, error) {
	options := store.Apply(opts...)
	storageKey := buildKey(options.Namespace, key)

	s.mu.RLock()
	item, exists := s.cache.Get(storageKey)
	s.mu.RUnlock()

	if !exists {
		return nil, nil
	}

	if item.IsExpired() {
		s.mu.Lock()
		s.cache.Remove(storageKey)
		s.mu.Unlock()
		return nil, nil
	}

	return item, nil
}

// Set stores data for a specific key within the given namespace
func (s *Storage) Set(ctx context.Context, key string, data []byte, opts ...store.Option) error {
	options := store.Apply(opts...)
	if options.Key != nil {
		return store.ErrInvalidOptions
	}
	storageKey := buildKey(options.Namespace, key)

	now := time.Now()
	item := &store.Item{
		Data:      make([]byte, len(data)),
		CreatedAt: now,
	}
	copy(item.Data, data)

	if options.TTL != nil {
		expiresAt := now.Add(*options.TTL)
		item.ExpiresAt = &expiresAt
	}

	s.mu.Lock()
	s.cache.Add(storageKey, item)
	s.mu.Unlock()

	return nil
}

// Delete removes data within the given namespace
func (s *Storage) Delete(ctx context.Context, opts ...store.Option) error {
	options := store.Apply(opts...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if options.Key != nil {
		s.cache.Remove(buildKey(options.Namespace, *options.Key))
		return nil
	}

	prefix := namespacePrefix(options.Namespace)
	for _, key := range s.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Remove(key)
		}
	}
	return nil
}

// Keys lists the live keys of a namespace.
func (s *Storage) Keys(ctx context.Context, opts ...store.Option) ([]string, error) {
	options := store.Apply(opts...)
	prefix := namespacePrefix(options.Namespace)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for _, key := range s.cache.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if item, ok := s.cache.Peek(key); ok && !item.IsExpired() {
			keys = append(keys, strings.TrimPrefix(key, prefix))
		}
	}
	return keys, nil
}

// Close stops the cleanup loop and drops every item.
func (s *Storage) Close() error {
	s.once.Do(func() { close(s.stop) })
	s.mu.Lock()
	s.cache.Purge()
	s.mu.Unlock()
	return nil
}

func namespacePrefix(ns string) string {
	if ns == "" {
		return "global:key:"
	}
	return fmt.Sprintf("ns:%s:key:", ns)
}

func buildKey(ns, key string) string { return namespacePrefix(ns) + key }

func (s *Storage) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
		s.mu.Lock()
		for _, key := range s.cache.Keys() {
			if item, exists := s.cache.Peek(key); exists && item.IsExpired() {
				s.cache.Remove(key)
			}
		}
		s.mu.Unlock()
	}
}

var _ store.Storage = (*Storage)(nil)
