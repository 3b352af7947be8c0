package pet

import (
	"fmt"
	"time"
)

// AbandonLevel is the neglect severity. Levels only ever move one step up
// at a time; any level below AbandonAbandoned may drop straight to normal.
type AbandonLevel int

const (
	AbandonNormal AbandonLevel = iota
	AbandonLeaving
	AbandonCritical
	AbandonDanger
	AbandonAbandoned
)

var abandonLevelNames = []string{"normal", "leaving", "critical", "danger", "abandoned"}

func (l AbandonLevel) String() string {
	if l < AbandonNormal || l > AbandonAbandoned {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return abandonLevelNames[l]
}

// MarshalText implements encoding.TextMarshaler
func (l AbandonLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *AbandonLevel) UnmarshalText(text []byte) error {
	for i, name := range abandonLevelNames {
		if name == string(text) {
			*l = AbandonLevel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown abandonment level %q", text)
}

// AbandonmentStatus is the neglect state exposed to the UI. Countdown is the
// time left before the next escalation; nil at normal and abandoned.
type AbandonmentStatus struct {
	Level     AbandonLevel   `json:"level"`
	Message   string         `json:"message"`
	Countdown *time.Duration `json:"countdown,omitempty"`
}

// Terminal reports whether the creature has been abandoned.
func (s AbandonmentStatus) Terminal() bool {
	return s.Level == AbandonAbandoned
}

// Remaining returns the countdown, or zero when there is none.
func (s AbandonmentStatus) Remaining() time.Duration {
	if s.Countdown == nil {
		return 0
	}
	return *s.Countdown
}

// levelDuration is how long a level lasts before escalating.
func (t Tuning) levelDuration(l AbandonLevel) time.Duration {
	switch l {
	case AbandonLeaving:
		return t.LeavingDuration
	case AbandonCritical:
		return t.CriticalDuration
	case AbandonDanger:
		return t.DangerDuration
	default:
		return 0
	}
}

func abandonStatus(l AbandonLevel, t Tuning) AbandonmentStatus {
	s := AbandonmentStatus{Level: l, Message: "abandon." + l.String()}
	if l != AbandonNormal && l != AbandonAbandoned {
		d := t.levelDuration(l)
		s.Countdown = &d
	}
	return s
}

// neglected reports whether the escalation trigger holds at now.
func neglected(c Creature, now time.Time, t Tuning) bool {
	if now.Sub(c.LastInteraction) >= t.NeglectGrace {
		return true
	}
	return c.Stats.Get(Hunger) <= t.HungerFloor || c.Stats.Get(Health) <= t.HealthFloor
}

// escalate is the single transition function of the abandonment machine.
// Time beyond an expiring countdown is discarded, so one evaluation never
// moves more than one level. The tick that raises leaving already counts
// against its countdown.
func escalate(s AbandonmentStatus, triggered bool, elapsed time.Duration, t Tuning) AbandonmentStatus {
	switch {
	case s.Level == AbandonAbandoned:
		return s
	case !triggered:
		return abandonStatus(AbandonNormal, t)
	case s.Level == AbandonNormal:
		s = abandonStatus(AbandonLeaving, t)
		left := max(s.Remaining()-elapsed, 0)
		s.Countdown = &left
		return s
	}

	left := s.Remaining() - elapsed
	if left > 0 {
		s.Countdown = &left
		return s
	}
	return abandonStatus(s.Level+1, t)
}
