package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"jello/internal/config"
	"jello/internal/persistence"
	"jello/internal/pet"
)

func TestTuningFor(t *testing.T) {
	if tuning, err := tuningFor("jello", 0); err != nil || tuning != nil {
		t.Errorf("Expected no override without a tick, got %v, %v", tuning, err)
	}
	tuning, err := tuningFor("mochi", 5*time.Second)
	if err != nil {
		t.Fatalf("tuningFor: %v", err)
	}
	if tuning.TickInterval != 5*time.Second {
		t.Errorf("Expected tick 5s, got %s", tuning.TickInterval)
	}
	if _, err := tuningFor("blob", time.Second); !errors.Is(err, pet.ErrUnknownSpecies) {
		t.Errorf("Expected ErrUnknownSpecies, got %v", err)
	}
}

func TestLoadSimulation(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewFileStore(t.TempDir())
	cfg := config.Defaults()
	cfg.SpeciesID = "puddin"
	cfg.Name = "Flan"

	sim, err := loadSimulation(ctx, store, cfg)
	if err != nil {
		t.Fatalf("loadSimulation: %v", err)
	}
	if v := sim.View(); v.Creature.Name != "Flan" || v.Creature.SpeciesID != "puddin" {
		t.Fatalf("Expected a new puddin named Flan, got %s %s", v.Creature.SpeciesID, v.Creature.Name)
	}

	sim.AddRewards(0, 4)
	if err := store.Save(ctx, cfg.Profile, sim.Save()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// the saved species wins over the configured one
	cfg.SpeciesID = "jello"
	cfg.Name = ""
	restored, err := loadSimulation(ctx, store, cfg)
	if err != nil {
		t.Fatalf("loadSimulation: %v", err)
	}
	v := restored.View()
	if v.Creature.SpeciesID != "puddin" || v.Creature.Name != "Flan" || v.Creature.Stars != 4 {
		t.Errorf("Expected the saved creature back, got %+v", v.Creature)
	}

	cfg.Profile = "../escape"
	if _, err := loadSimulation(ctx, store, cfg); err == nil {
		t.Error("Expected an invalid profile to fail")
	}
}

func TestAutosave(t *testing.T) {
	store := persistence.NewFileStore(t.TempDir())
	clock := pet.NewManualClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local))
	sim, err := pet.NewSimulation(pet.Options{Clock: clock, Seed: 1})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := autosave(ctx, sim, store, "auto", 10*time.Millisecond)

	sim.AddRewards(0, 2)
	deadline := time.Now().Add(2 * time.Second)
	for {
		st, err := store.Load(context.Background(), "auto")
		if err == nil && st.Creature.Stars == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected the change to be saved, last error %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected autosave to stop after cancel")
	}
}
