// Copyright 2024-2026 Aiku AI

// Package configstore abstracts the key-value store that backs rewrite rule
// configuration. Keys are "<ruleName>.<field>" and values are plain strings;
// an absent key reads as the empty string. The production implementation is
// a NATS JetStream KV bucket; an in-memory implementation backs tests and
// embedded use.
package configstore

import "context"

// Change is a single key mutation observed through Watch.
type Change struct {
	Key     string
	Value   string
	Deleted bool
}

// Store is the configuration source consumed by the rule registry and the
// administrative commands.
type Store interface {
	// List enumerates all keys and their current values.
	List(ctx context.Context) (map[string]string, error)
	// Get returns the value for key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Put creates or replaces a key.
	Put(ctx context.Context, key, value string) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Watch streams changes made after the call. The channel is closed
	// when ctx is cancelled.
	Watch(ctx context.Context) (<-chan Change, error)
}
