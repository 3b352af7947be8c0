package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"jello/internal/pet"
)

func sampleState(t *testing.T) pet.SaveState {
	t.Helper()
	clock := pet.NewManualClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	sim, err := pet.NewSimulation(pet.Options{Clock: clock, Seed: 1})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	sim.AddRewards(450, 3)
	sim.SetLand("beach")
	sim.ApplyDelta(pet.Hunger, -75)
	sim.Tick(time.Second)

	st := sim.Save()
	st.Entities = []pet.NuisanceEntity{
		{ID: "m1", Kind: pet.EntityMess, Position: pet.Position{X: 0.25, Y: 0.5}, CreatedAt: clock.Now()},
	}
	st.Gate.History = []pet.EvolutionRecord{
		{Stage: 2, At: clock.Now().Add(-time.Hour), Path: "auto"},
		{Stage: 3, At: clock.Now(), Path: "auto"},
	}
	return st
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	sqlStore, err := OpenSQLStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLStore: %v", err)
	}
	t.Cleanup(func() { sqlStore.Close() })
	return map[string]Store{
		"file":   NewFileStore(filepath.Join(dir, "profiles")),
		"sqlite": sqlStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleState(t)
			if err := store.Save(ctx, "alice", want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := store.Load(ctx, "alice")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if got.Creature.ID != want.Creature.ID || got.Creature.Stats != want.Creature.Stats {
				t.Errorf("Creature mismatch: %+v vs %+v", got.Creature, want.Creature)
			}
			if got.Creature.Level != want.Creature.Level || got.Creature.Stars != want.Creature.Stars {
				t.Errorf("Progression mismatch: level %d stars %d", got.Creature.Level, got.Creature.Stars)
			}
			if got.Creature.Land != "beach" {
				t.Errorf("Expected land beach, got %q", got.Creature.Land)
			}
			if got.Abandonment.Level != pet.AbandonLeaving || got.Abandonment.Remaining() != want.Abandonment.Remaining() {
				t.Errorf("Abandonment mismatch: %+v", got.Abandonment)
			}
			if len(got.Entities) != 1 || got.Entities[0].ID != "m1" {
				t.Errorf("Entities mismatch: %+v", got.Entities)
			}
			if len(got.Gate.History) != 2 || got.Gate.History[1].Stage != 3 {
				t.Errorf("History mismatch: %+v", got.Gate.History)
			}
			if !got.SavedAt.Equal(want.SavedAt) {
				t.Errorf("SavedAt mismatch: %v vs %v", got.SavedAt, want.SavedAt)
			}

			if _, err := pet.Restore(pet.Options{}, got); err != nil {
				t.Errorf("Restore from loaded state: %v", err)
			}
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			st := sampleState(t)
			if err := store.Save(ctx, "bob", st); err != nil {
				t.Fatalf("Save: %v", err)
			}
			st.Creature.Stars = 42
			st.Gate.History = st.Gate.History[:1]
			if err := store.Save(ctx, "bob", st); err != nil {
				t.Fatalf("Save again: %v", err)
			}
			got, err := store.Load(ctx, "bob")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Creature.Stars != 42 || len(got.Gate.History) != 1 {
				t.Errorf("Expected the second save to win, got stars %d history %d", got.Creature.Stars, len(got.Gate.History))
			}
		})
	}
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Load(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
			if err := store.Save(ctx, "../escape", pet.SaveState{}); err == nil {
				t.Error("Expected invalid profile id to be rejected")
			}
			if _, err := store.Load(ctx, ""); err == nil {
				t.Error("Expected empty profile id to be rejected")
			}
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"", false},
		{"file", false},
		{"sqlite", false},
		{"postgres", true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			s, err := Open(tt.kind, dir)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			s.Close()
		})
	}
}
