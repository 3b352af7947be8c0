package pet

import (
	"log/slog"
	"math"
)

// XPForLevel returns the total experience needed to reach level n.
func XPForLevel(n int) int {
	if n <= 1 {
		return 0
	}
	if n > MaxLevel {
		n = MaxLevel
	}
	return 50 * n * (n - 1)
}

// LevelForXP returns the highest level whose requirement xp meets.
func LevelForXP(xp int) int {
	level := 1
	for level < MaxLevel && xp >= XPForLevel(level+1) {
		level++
	}
	return level
}

// AddRewards credits experience and stars earned outside the simulation,
// such as from a mini-game, and returns the resulting level. Negative
// amounts count as zero.
func (s *Simulation) AddRewards(xp, stars int) int {
	s.mu.Lock()
	defer s.unlockAndNotify()

	c := &s.creature
	if s.status.Terminal() {
		return c.Level
	}
	xp, stars = max(xp, 0), max(stars, 0)
	if xp == 0 && stars == 0 {
		return c.Level
	}

	c.Experience = addInt(c.Experience, xp)
	c.Stars = addInt(c.Stars, stars)
	c.History.XPEarned = addInt(c.History.XPEarned, xp)
	c.History.StarsEarned = addInt(c.History.StarsEarned, stars)

	prev := c.Level
	c.Level = max(c.Level, LevelForXP(c.Experience))
	if xp > 0 {
		c.Stats.Add(Intelligence, RewardIntelligence)
		c.Tendencies.Studious++
	}
	if c.Level != prev {
		slog.Info("creature levelled up", "id", c.ID, "level", c.Level)
	}

	now := s.clock.Now()
	c.LastInteraction = now
	s.evaluateLocked(now)
	return c.Level
}

// addInt adds two non-negative counters, saturating at math.MaxInt.
func addInt(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
