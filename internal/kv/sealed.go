package kv

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const sealedPrefix = "sealed:v1:"

// Sealed encrypts the values of selected keys before they reach the
// underlying store. Other keys pass through unchanged.
type Sealed struct {
	inner  Store
	key    []byte
	sealed map[string]bool
}

// NewSealed wraps inner so that values of keys are encrypted at rest with
// XChaCha20-Poly1305. key must be chacha20poly1305.KeySize bytes.
func NewSealed(inner Store, key []byte, keys ...string) (*Sealed, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("seal key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	s := &Sealed{inner: inner, key: key, sealed: make(map[string]bool, len(keys))}
	for _, k := range keys {
		s.sealed[k] = true
	}
	return s, nil
}

// LoadOrCreateKey reads the seal key at path, generating a new random key
// with 0600 permissions when the file does not exist.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("decoding seal key: %w", err)
		}
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("seal key at %s has wrong size %d", path, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading seal key: %w", err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating seal key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating key dir: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key) + "\n"
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return nil, fmt.Errorf("writing seal key: %w", err)
	}
	return key, nil
}

// Get implements Store. Values written before sealing was enabled are
// returned as stored.
func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok || !s.sealed[key] || !strings.HasPrefix(value, sealedPrefix) {
		return value, ok, err
	}
	plain, err := s.open(key, strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", false, fmt.Errorf("unsealing %q: %w", key, err)
	}
	return plain, true, nil
}

// MultiSet implements Store.
func (s *Sealed) MultiSet(ctx context.Context, pairs ...Pair) error {
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		out[i] = p
		if !s.sealed[p.Key] {
			continue
		}
		sealed, err := s.seal(p.Key, p.Value)
		if err != nil {
			return fmt.Errorf("sealing %q: %w", p.Key, err)
		}
		out[i].Value = sealedPrefix + sealed
	}
	return s.inner.MultiSet(ctx, out...)
}

// MultiRemove implements Store.
func (s *Sealed) MultiRemove(ctx context.Context, keys ...string) error {
	return s.inner.MultiRemove(ctx, keys...)
}

// Close implements Store.
func (s *Sealed) Close() error {
	return s.inner.Close()
}

// seal binds the ciphertext to the key name so values cannot be swapped
// between keys.
func (s *Sealed) seal(key, plain string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := aead.Seal(nonce, nonce, []byte(plain), []byte(key))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealed) open(key, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", err
	}
	if len(data) < aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}
	nonce, ct := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
