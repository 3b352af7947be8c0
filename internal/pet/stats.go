package pet

import (
	"encoding/json"
	"fmt"
	"math"
)

// Stat identifies one of the creature's vitals
type Stat int

const (
	Hunger Stat = iota
	Hygiene
	Happiness
	Health
	Fatigue
	Affection
	Intelligence
	Stamina

	statCount
)

var statNames = [statCount]string{
	"hunger",
	"hygiene",
	"happiness",
	"health",
	"fatigue",
	"affection",
	"intelligence",
	"stamina",
}

// AllStats lists every stat in display order.
var AllStats = []Stat{Hunger, Hygiene, Happiness, Health, Fatigue, Affection, Intelligence, Stamina}

func (s Stat) String() string {
	if s < 0 || s >= statCount {
		return fmt.Sprintf("stat(%d)", int(s))
	}
	return statNames[s]
}

// ParseStat looks a stat up by its lowercase name.
func ParseStat(name string) (Stat, bool) {
	for i, n := range statNames {
		if n == name {
			return Stat(i), true
		}
	}
	return 0, false
}

// Stats holds the eight vitals. Every value stays within [MinStat, MaxStat].
type Stats [statCount]int

// Get returns the value of stat.
func (s Stats) Get(stat Stat) int {
	if stat < 0 || stat >= statCount {
		return 0
	}
	return s[stat]
}

// Add changes stat by amount, clamps, and returns the new value.
func (s *Stats) Add(stat Stat, amount int) int {
	if stat < 0 || stat >= statCount {
		return 0
	}
	s[stat] = addDelta(s[stat], amount)
	return s[stat]
}

// Set assigns stat, clamped, and returns the stored value.
func (s *Stats) Set(stat Stat, value int) int {
	if stat < 0 || stat >= statCount {
		return 0
	}
	s[stat] = clampStat(value)
	return s[stat]
}

// MarshalJSON encodes the stats as a name -> value object.
func (s Stats) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, statCount)
	for i, v := range s {
		m[statNames[i]] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a name -> value object, clamping every value.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for name, v := range m {
		stat, ok := ParseStat(name)
		if !ok {
			return fmt.Errorf("unknown stat %q", name)
		}
		s.Set(stat, v)
	}
	return nil
}

func clampStat(v int) int {
	if v < MinStat {
		return MinStat
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}

// saturating addition so huge deltas cannot wrap around before clamping
func addDelta(current, amount int) int {
	if amount > 0 && current > math.MaxInt-amount {
		return MaxStat
	}
	if amount < 0 && current < math.MinInt-amount {
		return MinStat
	}
	return clampStat(current + amount)
}
