package pet

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEscalateNeverSkips(t *testing.T) {
	tuning := DefaultTuning()
	elapsed := []time.Duration{0, time.Second, tuning.DangerDuration, tuning.LeavingDuration, tuning.LeavingDuration * 3, 72 * time.Hour}

	for level := AbandonNormal; level <= AbandonAbandoned; level++ {
		for _, triggered := range []bool{true, false} {
			for _, d := range elapsed {
				from := abandonStatus(level, tuning)
				next := escalate(from, triggered, d, tuning)

				switch {
				case level == AbandonAbandoned:
					if next.Level != AbandonAbandoned {
						t.Errorf("abandoned escaped to %s", next.Level)
					}
				case !triggered:
					if next.Level != AbandonNormal {
						t.Errorf("%s with trigger cleared: expected normal, got %s", level, next.Level)
					}
				case level == AbandonNormal:
					if next.Level != AbandonLeaving {
						t.Errorf("normal triggered: expected leaving, got %s", next.Level)
					}
				default:
					if step := next.Level - level; step < 0 || step > 1 {
						t.Errorf("%s after %v moved to %s", level, d, next.Level)
					}
				}
			}
		}
	}

	t.Run("Expiry sequence", func(t *testing.T) {
		s := abandonStatus(AbandonNormal, tuning)
		want := []AbandonLevel{AbandonLeaving, AbandonCritical, AbandonDanger, AbandonAbandoned, AbandonAbandoned}
		for i, w := range want {
			s = escalate(s, true, 100*time.Hour, tuning)
			if s.Level != w {
				t.Fatalf("step %d: expected %s, got %s", i, w, s.Level)
			}
		}
		if s.Countdown != nil {
			t.Error("Expected no countdown once abandoned")
		}
	})

	t.Run("Countdown decrements and resets per level", func(t *testing.T) {
		s := escalate(abandonStatus(AbandonNormal, tuning), true, time.Minute, tuning)
		if s.Level != AbandonLeaving || s.Remaining() != tuning.LeavingDuration-time.Minute {
			t.Fatalf("Expected leaving to count the raising tick, got %s %v", s.Level, s.Remaining())
		}
		s = escalate(s, true, 10*time.Minute, tuning)
		if s.Level != AbandonLeaving || s.Remaining() != tuning.LeavingDuration-11*time.Minute {
			t.Fatalf("Expected leaving with %v left, got %s %v", tuning.LeavingDuration-11*time.Minute, s.Level, s.Remaining())
		}
		s = escalate(s, true, tuning.LeavingDuration, tuning)
		if s.Level != AbandonCritical || s.Remaining() != tuning.CriticalDuration {
			t.Fatalf("Expected critical with full countdown, got %s %v", s.Level, s.Remaining())
		}
		if s.Message != "abandon.critical" {
			t.Errorf("Expected message key abandon.critical, got %q", s.Message)
		}
	})

	t.Run("Long first tick still stops at leaving", func(t *testing.T) {
		s := escalate(abandonStatus(AbandonNormal, tuning), true, 3*tuning.LeavingDuration, tuning)
		if s.Level != AbandonLeaving || s.Remaining() != 0 {
			t.Errorf("Expected leaving with no time left, got %s %v", s.Level, s.Remaining())
		}
	})

	t.Run("Normal has no countdown", func(t *testing.T) {
		s := escalate(abandonStatus(AbandonDanger, tuning), false, time.Second, tuning)
		if s.Countdown != nil {
			t.Error("Expected nil countdown at normal")
		}
	})
}

func TestNeglectTrigger(t *testing.T) {
	tuning := DefaultTuning()
	now := testStart()
	tests := []struct {
		name   string
		since  time.Duration
		hunger int
		health int
		want   bool
	}{
		{"Recently cared for", time.Hour, 80, 100, false},
		{"Grace period passed", tuning.NeglectGrace, 80, 100, true},
		{"Starving", 0, tuning.HungerFloor, 100, true},
		{"Failing health", 0, 80, tuning.HealthFloor, true},
		{"Just above floors", 0, tuning.HungerFloor + 1, tuning.HealthFloor + 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCreature(jello, "", now.Add(-tt.since), stubRand{})
			c.Stats.Set(Hunger, tt.hunger)
			c.Stats.Set(Health, tt.health)
			if got := neglected(c, now, tuning); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNeglectScenario(t *testing.T) {
	sim, clock := newTestSim(t)
	tuning := sim.Tuning()

	sim.ApplyDelta(Hunger, -75)
	sim.ApplyDelta(Hygiene, -75)
	if v := sim.View(); v.Creature.Stats.Get(Hunger) != 5 || v.Creature.Stats.Get(Hygiene) != 5 {
		t.Fatalf("Expected hunger and hygiene at 5, got %d/%d", v.Creature.Stats.Get(Hunger), v.Creature.Stats.Get(Hygiene))
	}

	seen := map[AbandonLevel]bool{}
	stop := sim.Observe(func(v View) { seen[v.Abandonment.Level] = true })
	defer stop()

	sim.Start()
	clock.Advance(tuning.LeavingDuration + tuning.CriticalDuration + tuning.DangerDuration - tuning.TickInterval)
	if v := sim.View(); v.Abandonment.Level != AbandonDanger {
		t.Fatalf("Expected danger one tick before the end, got %s", v.Abandonment.Level)
	}
	clock.Advance(tuning.TickInterval)

	v := sim.View()
	if v.Abandonment.Level != AbandonAbandoned {
		t.Fatalf("Expected abandoned, got %s", v.Abandonment.Level)
	}
	if !v.Dead || v.Mood != MoodGone {
		t.Errorf("Expected dead view with gone mood, got dead=%v mood=%s", v.Dead, v.Mood)
	}
	for _, l := range []AbandonLevel{AbandonLeaving, AbandonCritical, AbandonDanger} {
		if !seen[l] {
			t.Errorf("Expected to pass through %s", l)
		}
	}
	if n := sim.PendingTimers(); n != 0 {
		t.Errorf("Expected all timers canceled, %d left", n)
	}
	if n := clock.Pending(); n != 0 {
		t.Errorf("Expected clock to hold no live timers, %d left", n)
	}
}

func TestRecoveryToNormal(t *testing.T) {
	sim, clock := newTestSim(t)
	tuning := sim.Tuning()

	sim.ApplyDelta(Hunger, -75)
	sim.Start()
	clock.Advance(tuning.LeavingDuration + time.Minute)
	if v := sim.View(); v.Abandonment.Level != AbandonCritical {
		t.Fatalf("Expected critical, got %s", v.Abandonment.Level)
	}

	sim.ApplyDelta(Hunger, 60)
	clock.Advance(tuning.TickInterval)
	if v := sim.View(); v.Abandonment.Level != AbandonNormal {
		t.Errorf("Expected recovery to normal, got %s", v.Abandonment.Level)
	}
}

func TestAbandonedIsAbsorbing(t *testing.T) {
	sim, clock := newTestSim(t)
	st := sim.Save()
	st.Abandonment = abandonStatus(AbandonAbandoned, sim.Tuning())
	st.Creature.Stats.Set(Fatigue, 50)
	st.Entities = []NuisanceEntity{{ID: "m1", Kind: EntityMess, CreatedAt: testStart()}}
	st.Gate.Pending = true
	st.Creature.Stage = BoundaryStage
	st.Creature.Stars = 100
	sim = restoreTestSim(t, clock, st)
	sim.Start()

	before := sim.View()
	kinds := ActionKinds()
	for i := 0; i < 1000; i++ {
		switch i % 12 {
		case 0:
			if res := sim.PerformAction(kinds[i%len(kinds)]); res.Applied || res.Reason != ReasonAbandoned {
				t.Fatalf("Expected abandoned rejection, got %+v", res)
			}
		case 1:
			sim.ApplyDelta(Stat(i%int(statCount)), 37)
		case 2:
			sim.AddRewards(1000, 10)
		case 3:
			sim.Tick(time.Hour)
		case 4:
			sim.DecayTick(time.Hour)
		case 5:
			if sim.OnPoopClick("m1") {
				t.Fatal("Expected clear to be refused")
			}
		case 6:
			sim.Evolve()
		case 7:
			sim.Graduate()
		case 8:
			sim.SetLand("volcano")
		case 9:
			sim.CatchUp(time.Hour)
		case 10:
			sim.Evaluate()
		case 11:
			clock.Advance(time.Minute)
		}
	}

	after := sim.View()
	if after.Creature.Stats != before.Creature.Stats {
		t.Errorf("Stats changed: %v -> %v", before.Creature.Stats, after.Creature.Stats)
	}
	if after.Stage != before.Stage || after.Creature.Level != before.Creature.Level ||
		after.Creature.Stars != before.Creature.Stars || after.Creature.Experience != before.Creature.Experience {
		t.Errorf("Progression changed: %+v -> %+v", before.Creature, after.Creature)
	}
	if after.CurrentLand != before.CurrentLand {
		t.Errorf("Land changed to %s", after.CurrentLand)
	}
	if len(after.Poops) != 1 {
		t.Errorf("Expected the mess to stay, got %d", len(after.Poops))
	}
	if sim.PendingTimers() != 0 {
		t.Errorf("Expected nothing scheduled, got %d", sim.PendingTimers())
	}
}

func TestAbandonLevelText(t *testing.T) {
	data, err := json.Marshal(abandonStatus(AbandonDanger, DefaultTuning()))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back AbandonmentStatus
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Level != AbandonDanger || back.Remaining() != DefaultTuning().DangerDuration {
		t.Errorf("Expected danger with full countdown, got %s %v", back.Level, back.Remaining())
	}

	var l AbandonLevel
	if err := l.UnmarshalText([]byte("exploded")); err == nil {
		t.Error("Expected error for unknown level")
	}
}
