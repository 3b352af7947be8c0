package pet

import (
	"log/slog"
	"time"
)

// ActionKind is a player care action
type ActionKind string

const (
	ActionFeed     ActionKind = "feed"
	ActionClean    ActionKind = "clean"
	ActionBathe    ActionKind = "bathe"
	ActionBrush    ActionKind = "brush"
	ActionPlay     ActionKind = "play"
	ActionMedicate ActionKind = "medicate"
	ActionWake     ActionKind = "wake"
	ActionSleep    ActionKind = "sleep"
)

// careActions lists every action kind in menu order.
var careActions = []ActionKind{
	ActionFeed, ActionClean, ActionBathe, ActionBrush, ActionPlay, ActionMedicate, ActionWake, ActionSleep,
}

// ActionKinds returns the known action kinds in menu order.
func ActionKinds() []ActionKind {
	return append([]ActionKind(nil), careActions...)
}

// Reason explains why an action was not applied
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonAbandoned      Reason = "abandoned"
	ReasonAsleep         Reason = "asleep"
	ReasonBusy           Reason = "busy"
	ReasonNotSick        Reason = "not_sick"
	ReasonNotHungry      Reason = "not_hungry"
	ReasonAwake          Reason = "awake"
	ReasonNotTired       Reason = "not_tired"
	ReasonNothingToClean Reason = "nothing_to_clean"
	ReasonUnknownAction  Reason = "unknown_action"
)

// ActionResult reports the outcome of PerformAction. A rejected action has
// changed nothing.
type ActionResult struct {
	Kind    ActionKind `json:"kind"`
	Applied bool       `json:"applied"`
	Reason  Reason     `json:"reason,omitempty"`
	Message string     `json:"message"`
}

var reasonMessages = map[Reason]string{
	ReasonAbandoned:      "%s is gone.",
	ReasonAsleep:         "%s is sleeping. Shh!",
	ReasonBusy:           "%s is still busy with that.",
	ReasonNotSick:        "%s isn't sick.",
	ReasonNotHungry:      "%s isn't hungry.",
	ReasonAwake:          "%s is already awake.",
	ReasonNotTired:       "%s isn't tired.",
	ReasonNothingToClean: "Nothing to clean up.",
	ReasonUnknownAction:  "Unknown action.",
}

var actionMessages = map[ActionKind]string{
	ActionFeed:     "%s munches happily.",
	ActionClean:    "Cleaning up after %s.",
	ActionBathe:    "%s splashes in the shower.",
	ActionBrush:    "%s leans into the brush.",
	ActionPlay:     "%s bounces around!",
	ActionMedicate: "%s takes the medicine.",
	ActionWake:     "%s wakes up.",
	ActionSleep:    "%s drifts off to sleep.",
}

// PerformAction validates and applies a care action.
func (s *Simulation) PerformAction(kind ActionKind) ActionResult {
	s.mu.Lock()
	defer s.unlockAndNotify()

	res := s.performLocked(kind, s.clock.Now())
	if res.Applied {
		res.Message = sprintfName(actionMessages[kind], s.creature.Name)
	} else {
		res.Message = sprintfName(reasonMessages[res.Reason], s.creature.Name)
		slog.Debug("action rejected", "action", kind, "reason", res.Reason)
	}
	return res
}

func (s *Simulation) performLocked(kind ActionKind, now time.Time) (res ActionResult) {
	res.Kind = kind
	if s.status.Terminal() {
		res.Reason = ReasonAbandoned
		return res
	}
	if _, ok := actionMessages[kind]; !ok {
		res.Reason = ReasonUnknownAction
		return res
	}
	if s.creature.Asleep && kind != ActionWake {
		res.Reason = ReasonAsleep
		return res
	}
	if !s.locks.acquire(kind) {
		res.Reason = ReasonBusy
		return res
	}
	defer func() {
		if !res.Applied {
			s.locks.release(kind)
		}
	}()

	if res.Reason = s.precondition(kind); res.Reason != ReasonNone {
		return res
	}

	s.apply(kind, now)
	res.Applied = true
	s.schedule(s.tuning.ActionWindow, func() { s.locks.release(kind) })
	s.creature.LastInteraction = now
	s.evaluateLocked(now)
	return res
}

func (s *Simulation) precondition(kind ActionKind) Reason {
	c := &s.creature
	switch kind {
	case ActionFeed:
		if c.Stats.Get(Hunger) >= s.tuning.FullThreshold {
			return ReasonNotHungry
		}
	case ActionClean:
		for _, e := range s.entities.items {
			if e.Kind == EntityMess && e.State == StateIdle {
				return ReasonNone
			}
		}
		return ReasonNothingToClean
	case ActionMedicate:
		if !c.Sick {
			return ReasonNotSick
		}
	case ActionWake:
		if !c.Asleep {
			return ReasonAwake
		}
	case ActionSleep:
		if c.Stats.Get(Fatigue) <= s.tuning.WakeFatigue {
			return ReasonNotTired
		}
	}
	return ReasonNone
}

func (s *Simulation) apply(kind ActionKind, now time.Time) {
	c := &s.creature
	switch kind {
	case ActionFeed:
		c.Stats.Add(Hunger, scaled(FeedHungerIncrease, c.modifier("feed_bonus")))
		c.Stats.Add(Happiness, FeedHappinessIncrease)
		c.History.Feeds++
		c.Tendencies.Gluttonous++

	case ActionClean:
		for _, e := range s.entities.items {
			if e.Kind == EntityMess && e.State == StateIdle {
				s.beginClearLocked(EntityMess, e.ID, now)
			}
		}
		c.Stats.Add(Hygiene, CleanHygieneIncrease)
		c.History.Cleans++

	case ActionBathe:
		c.Stats.Add(Hygiene, BatheHygieneIncrease)
		c.History.Baths++

	case ActionBrush:
		c.Stats.Add(Hygiene, BrushHygieneIncrease)
		c.Stats.Add(Affection, scaled(BrushAffectionGain, c.modifier("affection_bonus")))
		c.History.Brushes++

	case ActionPlay:
		c.Stats.Add(Happiness, s.playHappiness())
		c.Stats.Add(Fatigue, scaled(PlayFatigueIncrease, c.modifier("fatigue_gain")))
		c.Stats.Add(Stamina, -PlayStaminaDecrease)
		c.Stats.Add(Hunger, -PlayHungerDecrease)
		c.Stats.Add(Affection, scaled(PlayAffectionGain, c.modifier("affection_bonus")))
		c.History.Plays++
		c.Tendencies.Playful++

	case ActionMedicate:
		c.Sick = false
		c.SickSince = nil
		c.Stats.Add(Health, MedicineEffect)
		c.History.Medications++
		slog.Info("creature medicated", "id", c.ID, "health", c.Stats.Get(Health))

	case ActionWake:
		s.setAsleep(false)
		if s.tuning.nightActive(now.Hour()) {
			c.NightWake = true
		}

	case ActionSleep:
		s.setAsleep(true)
	}
}

// playHappiness draws the happiness a play session gives from the
// temperament's range, then corrects it for the creature's condition.
func (s *Simulation) playHappiness() int {
	c := &s.creature
	t := s.tuning
	lo, hi := PlayRange(c.Traits)
	gain := lo
	if hi > lo {
		gain += s.rand.Intn(hi - lo + 1)
	}

	if c.Stats.Get(Health) < t.CriticalStat {
		gain -= t.HealthPenalty
	}
	if c.Stats.Get(Hunger) < t.CriticalStat {
		gain -= t.HungerPenalty
	}
	switch happiness := c.Stats.Get(Happiness); {
	case happiness >= t.VeryHappy:
		gain -= t.SaturationPenalty
	case happiness <= t.VerySad:
		gain += t.ComfortBonus
	}
	return gain
}

// scaled applies a trait multiplier to a base effect, rounding to nearest.
func scaled(base int, mod float64) int {
	v := float64(base) * mod
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
