// Package kvtest provides in-memory kv.Store doubles for tests.
package kvtest

import (
	"context"
	"errors"
	"sync"

	"github.com/streamtracker/streamtracker/internal/kv"
)

// ErrInjected is the default failure returned by a Faulty store.
var ErrInjected = errors.New("kvtest: injected storage failure")

// Memory is a map-backed kv.Store.
type Memory struct {
	mu     sync.Mutex
	data   map[string]string
	closed bool
}

// NewMemory returns an empty store, optionally seeded with pairs.
func NewMemory(pairs ...kv.Pair) *Memory {
	m := &Memory{data: make(map[string]string)}
	for _, p := range pairs {
		m.data[p.Key] = p.Value
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, kv.ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) MultiSet(_ context.Context, pairs ...kv.Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return kv.ErrClosed
	}
	for _, p := range pairs {
		m.data[p.Key] = p.Value
	}
	return nil
}

func (m *Memory) MultiRemove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return kv.ErrClosed
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Snapshot returns a copy of the stored data.
func (m *Memory) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// Faulty wraps a store and fails selected operations on demand.
type Faulty struct {
	kv.Store

	mu        sync.Mutex
	getErr    error
	setErr    error
	removeErr error
}

// NewFaulty wraps inner. All operations succeed until a Fail method is called.
func NewFaulty(inner kv.Store) *Faulty {
	return &Faulty{Store: inner}
}

// FailGets makes Get return err. Passing nil restores normal behavior.
func (f *Faulty) FailGets(err error) {
	f.mu.Lock()
	f.getErr = err
	f.mu.Unlock()
}

// FailSets makes MultiSet return err.
func (f *Faulty) FailSets(err error) {
	f.mu.Lock()
	f.setErr = err
	f.mu.Unlock()
}

// FailRemoves makes MultiRemove return err.
func (f *Faulty) FailRemoves(err error) {
	f.mu.Lock()
	f.removeErr = err
	f.mu.Unlock()
}

// FailAll makes every operation return ErrInjected.
func (f *Faulty) FailAll() {
	f.FailGets(ErrInjected)
	f.FailSets(ErrInjected)
	f.FailRemoves(ErrInjected)
}

func (f *Faulty) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	err := f.getErr
	f.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return f.Store.Get(ctx, key)
}

func (f *Faulty) MultiSet(ctx context.Context, pairs ...kv.Pair) error {
	f.mu.Lock()
	err := f.setErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Store.MultiSet(ctx, pairs...)
}

func (f *Faulty) MultiRemove(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	err := f.removeErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Store.MultiRemove(ctx, keys...)
}
