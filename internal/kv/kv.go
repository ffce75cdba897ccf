// Package kv is the durable string key/value store that survives process
// restarts. Batch writes and removes are atomic: readers never observe half
// of a batch.
package kv

import (
	"context"
	"errors"
)

// Pair is one key/value entry of a batch write.
type Pair struct {
	Key   string
	Value string
}

// Store is a persistent key/value store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// MultiSet writes every pair or none of them.
	MultiSet(ctx context.Context, pairs ...Pair) error
	// MultiRemove deletes every key or none of them. Absent keys are not
	// an error.
	MultiRemove(ctx context.Context, keys ...string) error
	Close() error
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kv: store closed")
