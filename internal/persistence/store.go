// Package persistence stores simulation snapshots keyed by profile.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jello/internal/pet"
)

// ErrNotFound is returned when a profile has never been saved.
var ErrNotFound = errors.New("profile not found")

// Store loads and saves simulation snapshots.
type Store interface {
	Load(ctx context.Context, profileID string) (pet.SaveState, error)
	Save(ctx context.Context, profileID string, st pet.SaveState) error
	Close() error
}

// Open returns the store of the given kind rooted at dir.
func Open(kind, dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	switch kind {
	case "", "file":
		return NewFileStore(dir), nil
	case "sqlite":
		return OpenSQLStore(filepath.Join(dir, "jello.db"))
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

// DefaultDir returns ~/.config/jello.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".config", "jello"), nil
}

func validProfile(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid profile id %q", id)
	}
	return nil
}
