package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/streamtracker/streamtracker/internal/kv"
	"github.com/streamtracker/streamtracker/internal/kv/kvtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, path string) *kv.SQLiteStore {
	t.Helper()
	s, err := kv.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := openSQLite(t, filepath.Join(t.TempDir(), "store.db"))
		v, ok, err := s.Get(ctx, "access_token")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("batch write and overwrite", func(t *testing.T) {
		s := openSQLite(t, filepath.Join(t.TempDir(), "store.db"))
		require.NoError(t, s.MultiSet(ctx,
			kv.Pair{Key: "access_token", Value: "a1"},
			kv.Pair{Key: "user_email", Value: "u@x.io"},
		))
		require.NoError(t, s.MultiSet(ctx, kv.Pair{Key: "access_token", Value: "a2"}))

		v, ok, err := s.Get(ctx, "access_token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "a2", v)

		v, _, _ = s.Get(ctx, "user_email")
		assert.Equal(t, "u@x.io", v)
	})

	t.Run("remove tolerates absent keys", func(t *testing.T) {
		s := openSQLite(t, filepath.Join(t.TempDir(), "store.db"))
		require.NoError(t, s.MultiSet(ctx, kv.Pair{Key: "a", Value: "1"}))
		require.NoError(t, s.MultiRemove(ctx, "a", "never-set"))
		_, ok, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty batches are no-ops", func(t *testing.T) {
		s := openSQLite(t, filepath.Join(t.TempDir(), "store.db"))
		assert.NoError(t, s.MultiSet(ctx))
		assert.NoError(t, s.MultiRemove(ctx))
	})

	t.Run("survives reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.db")
		s, err := kv.OpenSQLite(path)
		require.NoError(t, err)
		require.NoError(t, s.MultiSet(ctx, kv.Pair{Key: "onboarded:u@x.io", Value: "true"}))
		require.NoError(t, s.Close())

		s = openSQLite(t, path)
		v, ok, err := s.Get(ctx, "onboarded:u@x.io")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "true", v)
	})

	t.Run("cancelled context leaves no partial batch", func(t *testing.T) {
		s := openSQLite(t, filepath.Join(t.TempDir(), "store.db"))
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, s.MultiSet(cctx,
			kv.Pair{Key: "access_token", Value: "a"},
			kv.Pair{Key: "refresh_token", Value: "r"},
		))
		_, ok, err := s.Get(ctx, "access_token")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSealed(t *testing.T) {
	ctx := context.Background()

	newSealed := func(t *testing.T) (*kv.Sealed, *kvtest.Memory) {
		t.Helper()
		key, err := kv.LoadOrCreateKey(filepath.Join(t.TempDir(), "store.key"))
		require.NoError(t, err)
		mem := kvtest.NewMemory()
		s, err := kv.NewSealed(mem, key, "access_token", "refresh_token")
		require.NoError(t, err)
		return s, mem
	}

	t.Run("round trip hides plaintext", func(t *testing.T) {
		s, mem := newSealed(t)
		require.NoError(t, s.MultiSet(ctx,
			kv.Pair{Key: "access_token", Value: "secret-access"},
			kv.Pair{Key: "user_email", Value: "u@x.io"},
		))

		raw := mem.Snapshot()
		assert.NotContains(t, raw["access_token"], "secret-access")
		assert.Equal(t, "u@x.io", raw["user_email"])

		v, ok, err := s.Get(ctx, "access_token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "secret-access", v)
	})

	t.Run("legacy plaintext passes through", func(t *testing.T) {
		s, mem := newSealed(t)
		require.NoError(t, mem.MultiSet(ctx, kv.Pair{Key: "access_token", Value: "plain"}))
		v, ok, err := s.Get(ctx, "access_token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "plain", v)
	})

	t.Run("values cannot move between keys", func(t *testing.T) {
		s, mem := newSealed(t)
		require.NoError(t, s.MultiSet(ctx, kv.Pair{Key: "refresh_token", Value: "r"}))
		raw := mem.Snapshot()["refresh_token"]
		require.NoError(t, mem.MultiSet(ctx, kv.Pair{Key: "access_token", Value: raw}))

		_, _, err := s.Get(ctx, "access_token")
		assert.Error(t, err)
	})

	t.Run("wrong key size", func(t *testing.T) {
		_, err := kv.NewSealed(kvtest.NewMemory(), []byte("short"))
		assert.Error(t, err)
	})

	t.Run("sealed values land encrypted in sqlite", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "store.db")
		key, err := kv.LoadOrCreateKey(filepath.Join(dir, "store.key"))
		require.NoError(t, err)
		s, err := kv.NewSealed(openSQLite(t, dbPath), key, "access_token")
		require.NoError(t, err)
		require.NoError(t, s.MultiSet(ctx, kv.Pair{Key: "access_token", Value: "needle-token-value"}))

		for _, name := range []string{"store.db", "store.db-wal"} {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			assert.False(t, strings.Contains(string(data), "needle-token-value"), name)
		}
	})
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "store.key")
	first, err := kv.LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Len(t, first, 32)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := kv.LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, os.WriteFile(path, []byte("not base64!!"), 0o600))
	_, err = kv.LoadOrCreateKey(path)
	assert.Error(t, err)
}

func TestFaulty(t *testing.T) {
	ctx := context.Background()
	f := kvtest.NewFaulty(kvtest.NewMemory(kv.Pair{Key: "k", Value: "v"}))

	v, ok, err := f.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	f.FailAll()
	_, _, err = f.Get(ctx, "k")
	assert.ErrorIs(t, err, kvtest.ErrInjected)
	assert.ErrorIs(t, f.MultiSet(ctx, kv.Pair{Key: "a", Value: "b"}), kvtest.ErrInjected)
	assert.ErrorIs(t, f.MultiRemove(ctx, "k"), kvtest.ErrInjected)

	f.FailGets(nil)
	_, ok, err = f.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
