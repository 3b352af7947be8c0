package pet

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Options configures a Simulation. Zero values select defaults.
type Options struct {
	SpeciesID string
	Name      string
	Clock     Scheduler
	Rand      Rand
	Seed      int64   // noise seed for entity placement
	Tuning    *Tuning // replaces the species tuning when set

	// OnCleared runs after a nuisance entity has been cleared, outside the
	// simulation lock.
	OnCleared func(NuisanceEntity)
}

// View is the read-only projection handed to rendering code.
type View struct {
	Creature       Creature           `json:"creature"`
	SpeciesName    string             `json:"speciesName"`
	Glyph          string             `json:"glyph"`
	FormName       string             `json:"formName"`
	Mood           Mood               `json:"mood"`
	Action         Activity           `json:"action"`
	Stage          int                `json:"evolutionStage"`
	IsSleeping     bool               `json:"isSleeping"`
	IsSick         bool               `json:"isSick"`
	Abandonment    AbandonmentStatus  `json:"abandonmentStatus"`
	Poops          []NuisanceEntity   `json:"poops"`
	Bugs           []NuisanceEntity   `json:"bugs"`
	CurrentLand    string             `json:"currentLand"`
	CurrentHouseID string             `json:"currentHouseId"`
	Decision       *EvolutionDecision `json:"decision,omitempty"`
	Complete       bool               `json:"complete"`
	Dead           bool               `json:"dead"`
	Now            time.Time          `json:"now"`
}

// SaveState is the persisted shape of a simulation.
type SaveState struct {
	Creature    Creature          `json:"creature"`
	Abandonment AbandonmentStatus `json:"abandonment"`
	Gate        Gate              `json:"gate"`
	Entities    []NuisanceEntity  `json:"entities,omitempty"`
	SavedAt     time.Time         `json:"saved_at"`
}

// Simulation is the single owner of a creature and everything that happens
// to it. All state sits behind one mutex; scheduled callbacks take it too,
// so work is serialized the way an event loop would serialize it.
type Simulation struct {
	mu sync.Mutex

	species   *Species
	tuning    Tuning
	clock     Scheduler
	rand      Rand
	name      string
	seed      int64
	onCleared func(NuisanceEntity)

	creature Creature
	status   AbandonmentStatus
	gate     Gate
	entities entitySet
	spawners map[EntityKind]*spawner
	locks    actionLocks

	timers     map[*scheduled]struct{}
	generation uint64
	started    bool
	lastTick   time.Time

	observers map[int]func(View)
	nextObs   int
	deferred  []func()
}

type scheduled struct {
	timer Timer
	gen   uint64
}

// NewSimulation creates a simulation with a newborn creature.
func NewSimulation(opts Options) (*Simulation, error) {
	s, err := newSimulation(opts)
	if err != nil {
		return nil, err
	}
	s.creature = NewCreature(s.species, s.name, s.clock.Now(), s.rand)
	s.status = abandonStatus(AbandonNormal, s.tuning)
	return s, nil
}

// Restore recreates a simulation from saved state. The saved species wins
// over opts.SpeciesID.
func Restore(opts Options, st SaveState) (*Simulation, error) {
	if st.Creature.SpeciesID == "" {
		return nil, errors.New("restore: saved creature has no species")
	}
	if st.Creature.Stage < MinStage || st.Creature.Stage > MaxStage {
		return nil, fmt.Errorf("restore: stage %d out of range", st.Creature.Stage)
	}
	opts.SpeciesID = st.Creature.SpeciesID
	if opts.Name == "" {
		opts.Name = st.Creature.Name
	}
	s, err := newSimulation(opts)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	s.creature = st.Creature.clone()
	if s.creature.Level < 1 {
		s.creature.Level = 1
	}
	s.status = st.Abandonment
	if s.status.Message == "" {
		s.status = abandonStatus(s.status.Level, s.tuning)
	}
	s.gate = st.Gate
	s.gate.History = append([]EvolutionRecord(nil), st.Gate.History...)
	if err := s.entities.restore(st.Entities); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	return s, nil
}

func newSimulation(opts Options) (*Simulation, error) {
	id := opts.SpeciesID
	if id == "" {
		id = DefaultSpeciesID
	}
	sp, err := LookupSpecies(id)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		species:   sp,
		tuning:    sp.Tuning(),
		clock:     opts.Clock,
		rand:      opts.Rand,
		name:      opts.Name,
		seed:      opts.Seed,
		onCleared: opts.OnCleared,
		locks:     actionLocks{},
		timers:    make(map[*scheduled]struct{}),
		observers: make(map[int]func(View)),
	}
	if opts.Tuning != nil {
		s.tuning = *opts.Tuning
	}
	if s.clock == nil {
		s.clock = RealClock{}
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.seed == 0 {
		s.seed = int64(s.rand.Intn(math.MaxInt32)) + 1
	}
	s.resetSpawners()
	return s, nil
}

func (s *Simulation) resetSpawners() {
	s.spawners = map[EntityKind]*spawner{
		EntityMess: newSpawner(EntityMess, s.tuning, s.seed),
		EntityPest: newSpawner(EntityPest, s.tuning, s.seed+2),
	}
}

// Species returns the creature's species definition.
func (s *Simulation) Species() *Species {
	return s.species
}

// Tuning returns the tuning table in effect.
func (s *Simulation) Tuning() Tuning {
	return s.tuning
}

// Start arms the primary tick and both spawn schedules.
func (s *Simulation) Start() {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if s.started {
		return
	}
	s.started = true
	s.armLocked()
}

// Stop cancels every pending callback. Open action windows and clears are
// rolled back so a later Start begins clean.
func (s *Simulation) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	s.cancelAll()
	s.locks = actionLocks{}
	for _, e := range s.entities.items {
		if e.State == StateResolving {
			e.State = StateIdle
		}
	}
}

func (s *Simulation) armLocked() {
	s.lastTick = s.clock.Now()
	if s.status.Terminal() {
		return
	}
	s.scheduleTick()
	s.scheduleSpawn(EntityMess)
	s.scheduleSpawn(EntityPest)
}

// schedule runs f under the lock after d, unless it is canceled first.
// Caller holds s.mu.
func (s *Simulation) schedule(d time.Duration, f func()) {
	h := &scheduled{gen: s.generation}
	s.timers[h] = struct{}{}
	h.timer = s.clock.AfterFunc(d, func() { s.fire(h, f) })
}

func (s *Simulation) fire(h *scheduled, f func()) {
	s.mu.Lock()
	if _, ok := s.timers[h]; !ok || h.gen != s.generation {
		s.mu.Unlock()
		return
	}
	delete(s.timers, h)
	f()
	s.unlockAndNotify()
}

// cancelAll stops every pending callback. A callback already racing for
// the lock is dropped by the generation check in fire.
func (s *Simulation) cancelAll() {
	for h := range s.timers {
		if h.timer != nil {
			h.timer.Stop()
		}
	}
	s.timers = make(map[*scheduled]struct{})
	s.generation++
}

// PendingTimers returns how many callbacks the simulation has armed.
func (s *Simulation) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Simulation) scheduleTick() {
	s.schedule(s.tuning.TickInterval, func() {
		now := s.clock.Now()
		elapsed := now.Sub(s.lastTick)
		s.lastTick = now
		s.tickLocked(elapsed, now)
		if !s.status.Terminal() {
			s.scheduleTick()
		}
	})
}

// Tick runs one full evaluation for elapsed time: decay, then sleep and
// sickness, then abandonment escalation, then the evolution gate.
func (s *Simulation) Tick(elapsed time.Duration) {
	s.mu.Lock()
	defer s.unlockAndNotify()
	s.tickLocked(elapsed, s.clock.Now())
}

func (s *Simulation) tickLocked(elapsed time.Duration, now time.Time) {
	if s.status.Terminal() || elapsed <= 0 {
		return
	}
	// Same-tick spawns must not change this tick's hygiene decay
	messes := s.entities.count(EntityMess)

	s.creature.decay(elapsed, messes, s.tuning)
	s.updateConditions(elapsed, now)

	prev := s.status.Level
	s.status = escalate(s.status, neglected(s.creature, now, s.tuning), elapsed, s.tuning)
	if s.status.Level != prev {
		slog.Warn("abandonment level changed", "id", s.creature.ID, "from", prev, "to", s.status.Level)
	}
	if s.status.Terminal() {
		s.enterAbandoned()
		return
	}
	s.evaluateLocked(now)
}

// DecayTick applies decay only, without the state machines.
func (s *Simulation) DecayTick(elapsed time.Duration) {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if s.status.Terminal() {
		return
	}
	s.creature.decay(elapsed, s.entities.count(EntityMess), s.tuning)
}

func (s *Simulation) enterAbandoned() {
	s.cancelAll()
	s.locks = actionLocks{}
	slog.Warn("creature abandoned", "id", s.creature.ID, "name", s.creature.Name, "age", s.creature.Age(s.clock.Now()))
}

// CatchUp applies time that passed while nothing was running, such as
// between a save and the next launch. It is capped at MaxCatchUp and
// evaluated in one-minute steps so thresholds are crossed in order.
func (s *Simulation) CatchUp(elapsed time.Duration) {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if elapsed > MaxCatchUp {
		elapsed = MaxCatchUp
	}
	now := s.clock.Now()
	at := now.Add(-elapsed)
	for remaining := elapsed; remaining > 0 && !s.status.Terminal(); {
		step := min(catchUpStep, remaining)
		at = at.Add(step)
		remaining -= step
		s.tickLocked(step, at)
	}
	s.lastTick = now
	if elapsed > 0 {
		slog.Info("caught up offline time", "id", s.creature.ID, "elapsed", elapsed, "level", s.status.Level)
	}
}

// ApplyDelta changes one stat and returns its new value. It does nothing
// once the creature is abandoned.
func (s *Simulation) ApplyDelta(stat Stat, amount int) int {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if s.status.Terminal() {
		return s.creature.Stats.Get(stat)
	}
	v := s.creature.Stats.Add(stat, amount)
	s.evaluateLocked(s.clock.Now())
	return v
}

// Evaluate runs the evolution gate once.
func (s *Simulation) Evaluate() {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if s.status.Terminal() {
		return
	}
	s.evaluateLocked(s.clock.Now())
}

// evaluateLocked lets the gate advance the creature after a mutation.
func (s *Simulation) evaluateLocked(now time.Time) {
	s.gate.Evaluate(&s.creature, s.species, now)
}

// Graduate resolves the pending decision by fixing the creature at the
// boundary stage.
func (s *Simulation) Graduate() error {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if s.status.Terminal() {
		return nil
	}
	return s.gate.Graduate(&s.creature, s.clock.Now())
}

// Evolve resolves the pending decision by spending stars on the final stage.
func (s *Simulation) Evolve() error {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if s.status.Terminal() {
		return nil
	}
	return s.gate.Evolve(&s.creature, s.species, s.clock.Now())
}

// OnGraduate is Graduate for UI dispatch, where a repeated press is ignored.
func (s *Simulation) OnGraduate() {
	if err := s.Graduate(); err != nil {
		slog.Debug("graduate ignored", "err", err)
	}
}

// OnEvolve is Evolve for UI dispatch.
func (s *Simulation) OnEvolve() {
	if err := s.Evolve(); err != nil {
		slog.Debug("evolve ignored", "err", err)
	}
}

// ResetGame discards the creature and starts over with a newborn of the
// same species. It is the only way out of abandonment.
func (s *Simulation) ResetGame() {
	s.mu.Lock()
	defer s.unlockAndNotify()

	s.cancelAll()
	now := s.clock.Now()
	s.creature = NewCreature(s.species, s.name, now, s.rand)
	s.status = abandonStatus(AbandonNormal, s.tuning)
	s.gate = Gate{}
	s.entities.clear()
	s.locks = actionLocks{}
	s.resetSpawners()
	if s.started {
		s.armLocked()
	}
	slog.Info("game reset", "id", s.creature.ID, "species", s.species.ID)
}

// SetLand moves the creature to another land.
func (s *Simulation) SetLand(land string) {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if s.status.Terminal() || land == "" {
		return
	}
	s.creature.Land = land
}

// SetHouse moves the creature into another house.
func (s *Simulation) SetHouse(id string) {
	s.mu.Lock()
	defer s.unlockAndNotify()
	if s.status.Terminal() || id == "" {
		return
	}
	s.creature.HouseID = id
}

// View returns a snapshot for rendering.
func (s *Simulation) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Simulation) viewLocked() View {
	c := s.creature.clone()
	dead := s.status.Terminal()
	return View{
		Creature:       c,
		SpeciesName:    s.species.Name,
		Glyph:          s.species.Glyph(c.Stage),
		FormName:       s.species.StageName(c.Stage),
		Mood:           DeriveMood(c, dead, s.tuning),
		Action:         DeriveActivity(c, s.locks.resolving(), dead),
		Stage:          c.Stage,
		IsSleeping:     c.Asleep,
		IsSick:         c.Sick,
		Abandonment:    s.status,
		Poops:          s.entities.snapshot(EntityMess),
		Bugs:           s.entities.snapshot(EntityPest),
		CurrentLand:    c.Land,
		CurrentHouseID: c.HouseID,
		Decision:       s.gate.Decision(c, s.species),
		Complete:       c.Complete,
		Dead:           dead,
		Now:            s.clock.Now(),
	}
}

// Observe registers fn to receive a View after every change. Observers run
// outside the lock, possibly from timer goroutines, and must not block.
// The returned func unregisters fn.
func (s *Simulation) Observe(fn func(View)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// afterUnlock queues f to run once the current operation releases the lock.
func (s *Simulation) afterUnlock(f func()) {
	s.deferred = append(s.deferred, f)
}

func (s *Simulation) unlockAndNotify() {
	hooks := s.deferred
	s.deferred = nil
	var observers []func(View)
	var v View
	if len(s.observers) > 0 {
		v = s.viewLocked()
		for _, fn := range s.observers {
			observers = append(observers, fn)
		}
	}
	s.mu.Unlock()

	for _, f := range hooks {
		f()
	}
	for _, fn := range observers {
		fn(v)
	}
}

// Save captures the persisted state.
func (s *Simulation) Save() SaveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SaveState{
		Creature:    s.creature.clone(),
		Abandonment: s.status,
		Gate:        s.gate,
		SavedAt:     s.clock.Now(),
	}
	st.Gate.History = append([]EvolutionRecord(nil), s.gate.History...)
	for _, e := range s.entities.items {
		st.Entities = append(st.Entities, *e)
	}
	return st
}

// sprintfName fills the creature's name into a message template.
func sprintfName(format, name string) string {
	if !strings.Contains(format, "%s") {
		return format
	}
	return fmt.Sprintf(format, name)
}
