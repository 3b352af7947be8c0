package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"jello/internal/pet"
)

// FileStore keeps one JSON file per profile in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store writing into dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the state file for a profile
func (s *FileStore) Path(profileID string) string {
	return filepath.Join(s.dir, profileID+".json")
}

// Load implements Store
func (s *FileStore) Load(_ context.Context, profileID string) (pet.SaveState, error) {
	var st pet.SaveState
	if err := validProfile(profileID); err != nil {
		return st, err
	}
	data, err := os.ReadFile(s.Path(profileID))
	if errors.Is(err, fs.ErrNotExist) {
		return st, ErrNotFound
	}
	if err != nil {
		return st, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse state %s: %w", profileID, err)
	}
	return st, nil
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(_ context.Context, profileID string, st pet.SaveState) error {
	if err := validProfile(profileID); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp := s.Path(profileID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.Path(profileID)); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	slog.Debug("state saved", "profile", profileID, "path", s.Path(profileID))
	return nil
}

// Close implements Store
func (s *FileStore) Close() error { return nil }
