// Copyright 2024-2026 Aiku AI

package configstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATS is a Store backed by a JetStream key-value bucket. Rule edits made by
// any administrative client against the same bucket are observed by running
// daemons through Watch.
type NATS struct {
	bucket jetstream.KeyValue
}

var _ Store = (*NATS)(nil)

// OpenNATS binds to the named KV bucket, creating it when it does not exist
// yet.
func OpenNATS(ctx context.Context, nc *nats.Conn, bucket string) (*NATS, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("configstore: jetstream init: %w", err)
	}
	kv, err := js.KeyValue(ctx, bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "bridge bot rewrite rules",
			History:     5,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("configstore: open bucket %s: %w", bucket, err)
	}
	return &NATS{bucket: kv}, nil
}

// NewNATS wraps an existing bucket handle. Useful when the caller manages
// bucket lifecycle itself (e.g. the test infrastructure).
func NewNATS(bucket jetstream.KeyValue) *NATS {
	return &NATS{bucket: bucket}
}

func (n *NATS) List(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	lister, err := n.bucket.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return out, nil
		}
		return nil, fmt.Errorf("configstore: list keys: %w", err)
	}
	for key := range lister.Keys() {
		entry, err := n.bucket.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				// Deleted between listing and reading.
				continue
			}
			return nil, fmt.Errorf("configstore: get %s: %w", key, err)
		}
		out[key] = string(entry.Value())
	}
	return out, nil
}

func (n *NATS) Get(ctx context.Context, key string) (string, error) {
	entry, err := n.bucket.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("configstore: get %s: %w", key, err)
	}
	return string(entry.Value()), nil
}

func (n *NATS) Put(ctx context.Context, key, value string) error {
	if _, err := n.bucket.Put(ctx, key, []byte(value)); err != nil {
		return fmt.Errorf("configstore: put %s: %w", key, err)
	}
	return nil
}

func (n *NATS) Delete(ctx context.Context, key string) error {
	err := n.bucket.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("configstore: delete %s: %w", key, err)
	}
	return nil
}

func (n *NATS) Watch(ctx context.Context) (<-chan Change, error) {
	watcher, err := n.bucket.WatchAll(ctx, jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("configstore: watch: %w", err)
	}

	ch := make(chan Change, 64)
	go func() {
		defer close(ch)
		defer func() { _ = watcher.Stop() }()
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				if entry == nil {
					// End-of-initial-values marker, nothing to relay
					// with UpdatesOnly but tolerated regardless.
					continue
				}
				change := Change{Key: entry.Key()}
				switch entry.Operation() {
				case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
					change.Deleted = true
				default:
					change.Value = string(entry.Value())
				}
				select {
				case ch <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
