package pet

import (
	"log/slog"
	"time"
)

// updateConditions re-derives the sleep and sickness flags after decay.
func (s *Simulation) updateConditions(elapsed time.Duration, now time.Time) {
	s.updateSleep(now)
	s.updateSickness(elapsed, now)
}

func (s *Simulation) updateSleep(now time.Time) {
	c := &s.creature
	t := s.tuning
	night := t.nightActive(now.Hour())
	if !night {
		c.NightWake = false
	}

	fatigue := c.Stats.Get(Fatigue)
	if c.Asleep {
		if fatigue <= t.WakeFatigue && !night {
			s.setAsleep(false)
		}
		return
	}
	if fatigue >= t.SleepFatigue || (night && !c.NightWake) {
		s.setAsleep(true)
	}
}

// setAsleep flips the sleep flag and logs the change.
func (s *Simulation) setAsleep(asleep bool) {
	c := &s.creature
	if c.Asleep == asleep {
		return
	}
	c.Asleep = asleep
	if asleep {
		c.History.Naps++
		slog.Info("creature fell asleep", "id", c.ID, "fatigue", c.Stats.Get(Fatigue))
	} else {
		slog.Info("creature woke up", "id", c.ID, "fatigue", c.Stats.Get(Fatigue))
	}
}

func (s *Simulation) updateSickness(elapsed time.Duration, now time.Time) {
	c := &s.creature
	t := s.tuning
	health := c.Stats.Get(Health)

	if c.Sick {
		if c.SickSince != nil && now.Sub(*c.SickSince) >= t.MinIllness && health >= t.SickHealth {
			c.Sick = false
			c.SickSince = nil
			slog.Info("creature recovered", "id", c.ID, "health", health)
		}
		return
	}

	if health >= t.SickHealth {
		return
	}
	chance := t.IllnessChancePerHour * elapsed.Hours() * c.modifier("illness_chance")
	if s.rand.Float64() < chance {
		c.Sick = true
		since := now
		c.SickSince = &since
		slog.Info("creature fell ill", "id", c.ID, "health", health)
	}
}
