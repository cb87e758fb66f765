package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"chatterm/internal/utils"
)

// credentials is the on-disk shape of a stored login, the terminal
// counterpart of the browser's localStorage token entry.
type credentials struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	Username    string `json:"username"`
}

// Store persists credentials under the data directory and serves as the
// token source for outgoing requests.
type Store struct {
	mu    sync.RWMutex
	dir   string
	creds *credentials
}

// NewStore returns a store rooted at dataDir. Call Load to pick up a
// previously saved login.
func NewStore(dataDir string) *Store {
	return &Store{dir: dataDir}
}

// Path returns the credentials file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, "credentials.json")
}

// Load reads previously saved credentials. A missing file is not an
// error; a corrupt one is discarded.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil
	}
	if creds.AccessToken == "" {
		return nil
	}
	s.creds = &creds
	return nil
}

func (s *Store) save(creds credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(s.Path(), data, 0o600); err != nil {
		return err
	}
	s.creds = &creds
	return nil
}

// Clear forgets the stored credentials and removes the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token implements api.TokenSource.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return "", false
	}
	return s.creds.AccessToken, true
}

// Username returns the stored account name, if logged in.
func (s *Store) Username() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return "", false
	}
	return s.creds.Username, true
}
