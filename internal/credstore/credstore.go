// Package credstore persists the bearer credential across restarts.
//
// The token is sealed at rest with XChaCha20-Poly1305 under a
// machine-local key kept next to it. This is not a defence against an
// attacker with full account access; it keeps the raw token out of
// plaintext files and backups.
package credstore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	tokenFile = "token"
	keyFile   = "token.key"
)

// Store is a single-entry durable credential store rooted at one
// directory. Absence of the token file means unauthenticated.
type Store struct {
	dir string
}

// Open prepares the store directory and its sealing key.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("credstore: create dir: %w", err)
	}
	s := &Store{dir: dir}
	if _, err := s.key(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save seals the token and writes it to disk, replacing any previous one.
func (s *Store) Save(token string) error {
	key, err := s.key()
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("credstore: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("credstore: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(token), nil)

	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), sealed, 0o600); err != nil {
		return fmt.Errorf("credstore: write token: %w", err)
	}
	return nil
}

// Load returns the persisted token, or "" when none is stored. A token
// that cannot be unsealed is reported as an error; callers treat that as
// unauthenticated.
func (s *Store) Load() (string, error) {
	sealed, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credstore: read token: %w", err)
	}

	key, err := s.key()
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("credstore: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return "", errors.New("credstore: truncated token file")
	}

	plain, err := aead.Open(nil, sealed[:aead.NonceSize()], sealed[aead.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("credstore: unseal token: %w", err)
	}
	return string(plain), nil
}

// Clear removes the persisted token. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.dir, tokenFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// key loads the sealing key, generating and persisting a fresh one on
// first use.
func (s *Store) key() ([]byte, error) {
	path := filepath.Join(s.dir, keyFile)

	b, err := os.ReadFile(path)
	if err == nil {
		if len(b) != chacha20poly1305.KeySize {
			return nil, errors.New("credstore: malformed key file")
		}
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("credstore: read key: %w", err)
	}

	b = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("credstore: generate key: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return nil, fmt.Errorf("credstore: write key: %w", err)
	}
	return b, nil
}
