package shop

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TokenStore hands out the anonymous session token that keys a guest's
// cart. The token is minted once, persisted to disk, and reused on
// every later call until Clear wipes it. Clearing is the privacy
// boundary: after logout a fresh token means a fresh, empty cart.
type TokenStore struct {
	Path string

	mu    sync.Mutex
	token string
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{Path: path}
}

// Token returns the current session token, minting and persisting one
// if none exists yet.
func (s *TokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	if data, err := os.ReadFile(s.Path); err == nil {
		if tok := strings.TrimSpace(string(data)); tok != "" {
			s.token = tok
			return s.token, nil
		}
	}

	tok := mintToken()
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(s.Path, []byte(tok+"\n"), 0o600); err != nil {
		return "", err
	}
	s.token = tok
	return tok, nil
}

// Clear forgets the token in memory and on disk.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	err := os.Remove(s.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func mintToken() string {
	return fmt.Sprintf("session_%d_%09d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
}
