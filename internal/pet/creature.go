package pet

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// History holds lifetime totals
type History struct {
	Feeds         int `json:"feeds"`
	Cleans        int `json:"cleans"`
	Baths         int `json:"baths"`
	Brushes       int `json:"brushes"`
	Plays         int `json:"plays"`
	Naps          int `json:"naps"`
	Medications   int `json:"medications"`
	MessesCleared int `json:"messes_cleared"`
	PestsCleared  int `json:"pests_cleared"`
	Evolutions    int `json:"evolutions"`
	XPEarned      int `json:"xp_earned"`
	StarsEarned   int `json:"stars_earned"`
}

// Tendencies accumulate from how the creature is raised. They only feed
// cosmetic branching.
type Tendencies struct {
	Playful    int `json:"playful"`
	Tidy       int `json:"tidy"`
	Gluttonous int `json:"gluttonous"`
	Studious   int `json:"studious"`
}

// Creature represents the virtual pet's state
type Creature struct {
	ID         uuid.UUID  `json:"id"`
	SpeciesID  string     `json:"species_id"`
	Name       string     `json:"name"`
	Level      int        `json:"level"`
	Experience int        `json:"experience"`
	Stars      int        `json:"stars"`
	Stage      int        `json:"stage"`
	Stats      Stats      `json:"stats"`
	History    History    `json:"history"`
	Tendencies Tendencies `json:"tendencies"`
	Traits     []Trait    `json:"traits,omitempty"`

	BornAt          time.Time `json:"born_at"`
	LastInteraction time.Time `json:"last_interaction"`

	Asleep    bool       `json:"asleep"`
	NightWake bool       `json:"night_wake,omitempty"` // woken during the night window; stays up until it ends
	Sick      bool       `json:"sick"`
	SickSince *time.Time `json:"sick_since,omitempty"`
	Complete  bool       `json:"complete"` // graduated at the boundary stage

	Land    string `json:"land,omitempty"`
	HouseID string `json:"house_id,omitempty"`

	// Fractional stat accumulators
	Fractions [statCount]float64 `json:"fractions"`
}

// NewCreature creates a newborn of the given species.
func NewCreature(sp *Species, name string, now time.Time, r Rand) Creature {
	if name == "" {
		name = DefaultPetName
	}
	c := Creature{
		ID:              uuid.New(),
		SpeciesID:       sp.ID,
		Name:            name,
		Level:           1,
		Stage:           MinStage,
		BornAt:          now,
		LastInteraction: now,
		Traits:          GenerateTraits(r),
		Land:            "meadow",
		HouseID:         "starter",
	}
	c.Stats.Set(Hunger, 80)
	c.Stats.Set(Hygiene, 80)
	c.Stats.Set(Happiness, 70)
	c.Stats.Set(Health, MaxStat)
	c.Stats.Set(Fatigue, 10)
	c.Stats.Set(Affection, 20)
	c.Stats.Set(Intelligence, 10)
	c.Stats.Set(Stamina, 80)

	slog.Info("created new creature", "id", c.ID, "species", sp.ID, "name", c.Name)
	return c
}

// clone returns a copy that shares no mutable memory with c.
func (c Creature) clone() Creature {
	out := c
	if c.Traits != nil {
		out.Traits = append([]Trait(nil), c.Traits...)
	}
	if c.SickSince != nil {
		t := *c.SickSince
		out.SickSince = &t
	}
	return out
}

// Age returns how long the creature has been alive at now.
func (c Creature) Age(now time.Time) time.Duration {
	return now.Sub(c.BornAt)
}

// modifier returns the combined trait multiplier for key.
func (c Creature) modifier(key string) float64 {
	return TraitModifier(c.Traits, key)
}
