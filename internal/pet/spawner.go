package pet

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"
)

const (
	roomMargin     = 0.1
	placeAttempts  = 8
	fieldFrequency = 0.73
)

// spawner places one kind of nuisance. Positions follow a noise field so
// messes collect around favourite spots instead of scattering uniformly.
type spawner struct {
	kind     EntityKind
	cap      int
	interval time.Duration
	jitter   time.Duration
	spacing  float64

	fieldX opensimplex.Noise
	fieldY opensimplex.Noise
	step   int
}

func newSpawner(kind EntityKind, t Tuning, seed int64) *spawner {
	sp := &spawner{
		kind:    kind,
		spacing: t.MinEntitySpacing,
		fieldX:  opensimplex.NewNormalized(seed),
		fieldY:  opensimplex.NewNormalized(seed + 1),
	}
	switch kind {
	case EntityMess:
		sp.cap, sp.interval, sp.jitter = t.MessCap, t.MessInterval, t.MessJitter
	case EntityPest:
		sp.cap, sp.interval, sp.jitter = t.PestCap, t.PestInterval, t.PestJitter
	}
	return sp
}

// nextInterval returns the wait until the next spawn attempt.
func (sp *spawner) nextInterval(r Rand) time.Duration {
	d := sp.interval
	if sp.jitter > 0 {
		d += time.Duration((r.Float64()*2 - 1) * float64(sp.jitter))
	}
	if d < time.Second {
		d = time.Second
	}
	return d
}

// place picks a position away from existing entities of the same kind.
func (sp *spawner) place(existing []Position, r Rand) Position {
	sp.step++
	t := float64(sp.step) * fieldFrequency
	p := Position{
		X: inRoom(sp.fieldX.Eval2(t, 0.5)),
		Y: inRoom(sp.fieldY.Eval2(0.5, t)),
	}

	for i := 0; i < placeAttempts && sp.crowded(p, existing); i++ {
		p = Position{
			X: clampRoom(p.X + (r.Float64()*2-1)*sp.spacing*2),
			Y: clampRoom(p.Y + (r.Float64()*2-1)*sp.spacing*2),
		}
	}

	// Crowding is tolerated after the attempts run out, stacking is not
	for i := 0; i <= len(existing) && overlaps(p, existing); i++ {
		if p.X > 0.5 {
			p.X = clampRoom(p.X - sp.spacing/2)
		} else {
			p.X = clampRoom(p.X + sp.spacing/2)
		}
	}
	return p
}

func (sp *spawner) crowded(p Position, existing []Position) bool {
	limit := sp.spacing * sp.spacing
	for _, q := range existing {
		if p.distance2(q) < limit {
			return true
		}
	}
	return false
}

func overlaps(p Position, existing []Position) bool {
	for _, q := range existing {
		if p == q {
			return true
		}
	}
	return false
}

// inRoom maps a [0,1) noise sample into the room, away from the walls.
func inRoom(v float64) float64 {
	return roomMargin + v*(1-2*roomMargin)
}

func clampRoom(v float64) float64 {
	if v < roomMargin {
		return roomMargin
	}
	if v > 1-roomMargin {
		return 1 - roomMargin
	}
	return v
}

// scheduleSpawn arms the next spawn attempt for kind. Caller holds s.mu.
func (s *Simulation) scheduleSpawn(kind EntityKind) {
	sp := s.spawners[kind]
	s.schedule(sp.nextInterval(s.rand), func() { s.spawnTick(kind) })
}

// spawnTick runs one scheduled attempt and re-arms the schedule.
func (s *Simulation) spawnTick(kind EntityKind) {
	sp := s.spawners[kind]
	if s.entities.count(kind) < sp.cap && !s.creature.Asleep && !s.status.Terminal() {
		e := &NuisanceEntity{
			ID:        uuid.NewString(),
			Kind:      kind,
			Position:  sp.place(s.entities.positions(kind), s.rand),
			CreatedAt: s.clock.Now(),
		}
		s.entities.add(e)
		slog.Debug("nuisance spawned", "kind", kind, "id", e.ID, "x", e.Position.X, "y", e.Position.Y)
	}
	s.scheduleSpawn(kind)
}

// BeginClear starts clearing an entity. It returns false if the entity is
// unknown or already being cleared.
func (s *Simulation) BeginClear(kind EntityKind, id string) bool {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if s.status.Terminal() {
		return false
	}
	return s.beginClearLocked(kind, id, s.clock.Now())
}

// OnPoopClick begins clearing a mess.
func (s *Simulation) OnPoopClick(id string) bool {
	return s.BeginClear(EntityMess, id)
}

// OnBugClick begins clearing a pest.
func (s *Simulation) OnBugClick(id string) bool {
	return s.BeginClear(EntityPest, id)
}

func (s *Simulation) beginClearLocked(kind EntityKind, id string, now time.Time) bool {
	e := s.entities.find(kind, id)
	if e == nil || !e.State.begin() {
		return false
	}
	s.creature.LastInteraction = now
	s.schedule(s.tuning.ClearDelay, func() { s.finalizeClear(kind, id) })
	return true
}

// finalizeClear removes a cleared entity and pays its reward.
func (s *Simulation) finalizeClear(kind EntityKind, id string) {
	e := s.entities.find(kind, id)
	if e == nil || !e.State.finish() {
		return
	}
	s.entities.remove(id)

	c := &s.creature
	switch kind {
	case EntityMess:
		c.Stats.Add(Hygiene, s.tuning.MessClearHygiene)
		c.History.MessesCleared++
		c.Tendencies.Tidy++
	case EntityPest:
		c.Stats.Add(Happiness, s.tuning.PestClearHappiness)
		c.History.PestsCleared++
	}
	now := s.clock.Now()
	c.LastInteraction = now
	slog.Debug("nuisance cleared", "kind", kind, "id", id)

	if s.onCleared != nil {
		cleared, hook := *e, s.onCleared
		s.afterUnlock(func() { hook(cleared) })
	}
	s.evaluateLocked(now)
}
