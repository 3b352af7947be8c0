package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jello/internal/chase"
	"jello/internal/config"
	"jello/internal/network"
	"jello/internal/persistence"
	"jello/internal/pet"
	"jello/internal/ui"
)

const saveDelay = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env", ".env", "settings file loaded before the environment")
	profile := flag.String("profile", "", "profile to play (overrides JELLO_PROFILE)")
	showStats := flag.Bool("stats", false, "show the stats card and exit")
	chaseTarget := flag.String("chase", "", "chase a target: butterfly, ball or mouse")
	serve := flag.Bool("serve", false, "serve the simulation over websocket instead of the terminal")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if *profile != "" {
		cfg.Profile = *profile
	}

	dir := cfg.StorePath
	if dir == "" {
		if dir, err = persistence.DefaultDir(); err != nil {
			return err
		}
	}
	store, err := persistence.Open(cfg.StoreKind, dir)
	if err != nil {
		return err
	}
	defer store.Close()

	logFile, err := os.OpenFile(filepath.Join(dir, "jello.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := loadSimulation(ctx, store, cfg)
	if err != nil {
		return err
	}
	slog.Info("simulation ready",
		"profile", cfg.Profile,
		"species", sim.Species().ID,
		"store", cfg.StoreKind,
		"dir", dir,
	)

	sim.Start()
	saved := autosave(ctx, sim, store, cfg.Profile, saveDelay)

	switch {
	case *showStats:
		err = ui.DisplayStats(sim.View())
	case *chaseTarget != "":
		var caught bool
		caught, err = chase.Run(sim.View(), *chaseTarget, func(t chase.Target) {
			sim.AddRewards(t.XP, t.Stars)
		})
		if err == nil && !caught {
			fmt.Printf("The %s got away!\n", *chaseTarget)
		}
	case *serve:
		err = serveHub(ctx, sim, cfg.Addr)
	default:
		_, err = tea.NewProgram(ui.NewModel(sim), tea.WithAltScreen()).Run()
	}

	sim.Stop()
	stop()
	<-saved
	if serr := store.Save(context.Background(), cfg.Profile, sim.Save()); serr != nil {
		slog.Error("final save failed", "profile", cfg.Profile, "error", serr)
		return errors.Join(err, serr)
	}
	slog.Info("simulation saved", "profile", cfg.Profile)
	return err
}

// loadSimulation restores the profile and fast-forwards it over the time the
// program was closed. A profile that was never saved starts a new creature.
func loadSimulation(ctx context.Context, store persistence.Store, cfg config.Config) (*pet.Simulation, error) {
	st, err := store.Load(ctx, cfg.Profile)
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		tuning, err := tuningFor(cfg.SpeciesID, cfg.Tick)
		if err != nil {
			return nil, err
		}
		slog.Info("starting a new creature", "profile", cfg.Profile, "species", cfg.SpeciesID)
		return pet.NewSimulation(pet.Options{SpeciesID: cfg.SpeciesID, Name: cfg.Name, Tuning: tuning})
	case err != nil:
		return nil, fmt.Errorf("load profile %s: %w", cfg.Profile, err)
	}

	tuning, err := tuningFor(st.Creature.SpeciesID, cfg.Tick)
	if err != nil {
		return nil, err
	}
	sim, err := pet.Restore(pet.Options{Name: cfg.Name, Tuning: tuning}, st)
	if err != nil {
		return nil, err
	}
	if away := time.Since(st.SavedAt); away > 0 {
		slog.Info("catching up", "profile", cfg.Profile, "away", away.Round(time.Second))
		sim.CatchUp(away)
	}
	return sim, nil
}

// tuningFor returns the species tuning with the tick interval replaced, or
// nil when tick is unset.
func tuningFor(speciesID string, tick time.Duration) (*pet.Tuning, error) {
	if tick <= 0 {
		return nil, nil
	}
	sp, err := pet.LookupSpecies(speciesID)
	if err != nil {
		return nil, err
	}
	t := sp.Tuning()
	t.TickInterval = tick
	return &t, nil
}

// autosave writes the simulation to store whenever it changes, at most once
// per delay. The returned channel closes once ctx is done and the last write
// has finished.
func autosave(ctx context.Context, sim *pet.Simulation, store persistence.Store, profile string, delay time.Duration) <-chan struct{} {
	changed := make(chan struct{}, 1)
	unsubscribe := sim.Observe(func(pet.View) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			if err := store.Save(ctx, profile, sim.Save()); err != nil {
				slog.Warn("autosave failed", "profile", profile, "error", err)
				continue
			}
			slog.Debug("autosaved", "profile", profile)
		}
	}()
	return done
}

// serveHub serves the simulation on addr until ctx is cancelled.
func serveHub(ctx context.Context, sim *pet.Simulation, addr string) error {
	hub := network.NewHub(sim)
	go hub.Run(ctx)

	server := &http.Server{
		Addr:              addr,
		Handler:           network.NewMux(hub),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		slog.Info("serving", "addr", addr)
		errc <- server.ListenAndServe()
	}()
	fmt.Printf("Serving on %s, press Ctrl+C to stop\n", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
