package pet

import (
	"errors"
	"log/slog"
	"time"
)

var (
	// ErrNoDecision is returned when graduate/evolve is called with no decision pending.
	ErrNoDecision = errors.New("no evolution decision pending")
	// ErrDecisionResolved is returned when the boundary decision was already made.
	ErrDecisionResolved = errors.New("evolution decision already resolved")
	// ErrInsufficientStars is returned when the evolve branch cannot be paid for.
	ErrInsufficientStars = errors.New("not enough stars to evolve")
)

// EvolutionDecision is offered once the creature reaches the boundary stage.
type EvolutionDecision struct {
	CurrentStars  int `json:"current_stars"`
	RequiredStars int `json:"required_stars"`
}

// CanEvolve reports whether the evolve branch is affordable.
func (d EvolutionDecision) CanEvolve() bool {
	return d.CurrentStars >= d.RequiredStars
}

// EvolutionRecord is one entry in the unlocked-evolution history.
type EvolutionRecord struct {
	Stage int       `json:"stage"`
	At    time.Time `json:"at"`
	Path  string    `json:"path"` // "auto", "graduate" or "evolve"
}

// Gate tracks stage advancement and the boundary decision.
type Gate struct {
	Pending  bool              `json:"pending"`
	Resolved bool              `json:"resolved"`
	History  []EvolutionRecord `json:"history,omitempty"`
}

// Evaluate advances the creature at most one stage if it meets the next
// stage's thresholds. At the boundary stage it raises the decision instead.
func (g *Gate) Evaluate(c *Creature, sp *Species, now time.Time) bool {
	if g.Resolved || c.Complete || c.Stage >= MaxStage {
		return false
	}
	if c.Stage >= BoundaryStage {
		g.Pending = true
		return false
	}

	rule, ok := sp.Stages[c.Stage+1]
	if !ok {
		return false
	}
	if c.Level < rule.Level || c.Stats.Get(Affection) < rule.Affection {
		return false
	}

	c.Stage++
	c.History.Evolutions++
	g.History = append(g.History, EvolutionRecord{Stage: c.Stage, At: now, Path: "auto"})
	slog.Info("creature evolved", "id", c.ID, "stage", c.Stage, "form", sp.StageName(c.Stage))

	if c.Stage == BoundaryStage {
		g.Pending = true
		slog.Info("evolution decision pending", "id", c.ID, "required_stars", sp.RequiredStars)
	}
	return true
}

// Decision returns the pending decision, or nil.
func (g *Gate) Decision(c Creature, sp *Species) *EvolutionDecision {
	if !g.Pending {
		return nil
	}
	return &EvolutionDecision{CurrentStars: c.Stars, RequiredStars: sp.RequiredStars}
}

func (g *Gate) checkPending() error {
	if g.Resolved {
		return ErrDecisionResolved
	}
	if !g.Pending {
		return ErrNoDecision
	}
	return nil
}

// Graduate fixes the creature at the boundary stage for good.
func (g *Gate) Graduate(c *Creature, now time.Time) error {
	if err := g.checkPending(); err != nil {
		return err
	}
	c.Complete = true
	g.Pending = false
	g.Resolved = true
	g.History = append(g.History, EvolutionRecord{Stage: c.Stage, At: now, Path: "graduate"})
	slog.Info("creature graduated", "id", c.ID, "stage", c.Stage)
	return nil
}

// Evolve spends stars to reach the final stage.
func (g *Gate) Evolve(c *Creature, sp *Species, now time.Time) error {
	if err := g.checkPending(); err != nil {
		return err
	}
	if c.Stars < sp.RequiredStars {
		return ErrInsufficientStars
	}
	c.Stars -= sp.RequiredStars
	c.Stage = MaxStage
	c.History.Evolutions++
	g.Pending = false
	g.Resolved = true
	g.History = append(g.History, EvolutionRecord{Stage: c.Stage, At: now, Path: "evolve"})
	slog.Info("creature evolved past boundary", "id", c.ID, "stage", c.Stage, "stars_spent", sp.RequiredStars)
	return nil
}
