// Package store persists struct instances as JSON documents behind a small
// key-value Storage interface with namespaces and TTLs.
package store

import (
	"context"
	"errors"
	"time"
)

// Storage is a namespaced key-value store.
type Storage interface {
	// Get returns nil and no error when key does not exist or has expired.
	Get(ctx context.Context, key string, opts ...Option) (*Item, error)

	Set(ctx context.Context, key string, data []byte, opts ...Option) error

	// Delete removes the key given with WithKey, or the whole namespace when
	// no key is given.
	Delete(ctx context.Context, opts ...Option) error

	// Keys lists the live keys of a namespace in no particular order.
	Keys(ctx context.Context, opts ...Option) ([]string, error)

	Close() error
}

// Item is a stored value with its metadata.
type Item struct {
	Data      []byte
	CreatedAt time.Time
	ExpiresAt *time.Time // nil = no expiration
}

// IsExpired checks if the item has expired
func (i *Item) IsExpired() bool {
	return i.ExpiresAt != nil && time.Now().After(*i.ExpiresAt)
}

// Option configures storage operations
type Option func(*Options)

// Options contains configuration for storage operations
type Options struct {
	Namespace string         // "" = global
	Key       *string        // for Delete
	TTL       *time.Duration // for Set
}

// Apply folds opts into a fresh Options.
func Apply(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithNamespace scopes an operation to a namespace, typically a struct type
// name.
func WithNamespace(ns string) Option {
	return func(o *Options) {
		o.Namespace = ns
	}
}

// WithKey selects a single key for Delete.
func WithKey(key string) Option {
	return func(o *Options) {
		o.Key = &key
	}
}

// WithTTL sets a time-to-live for the stored data
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = &ttl
	}
}

var (
	// ErrInvalidOptions is returned when incompatible options are provided
	ErrInvalidOptions = errors.New("store: invalid option combination")
	// ErrNotFound is returned by Records.Load for missing records.
	ErrNotFound = errors.New("store: record not found")
)
