package pet

import "log/slog"

// Rand is the randomness the simulation draws on. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Trait represents a personality characteristic that affects pet behavior
type Trait struct {
	Name      string             `json:"name"`
	Category  string             `json:"category"`  // "temperament", "appetite", "sociability", "constitution"
	Modifiers map[string]float64 `json:"modifiers"` // modifier key -> multiplier
	PlayMin   int                `json:"play_min,omitempty"`
	PlayMax   int                `json:"play_max,omitempty"`
}

var traitCategories = []string{"temperament", "appetite", "sociability", "constitution"}

var traitDefinitions = map[string][]Trait{
	"temperament": {
		{
			Name:      "Cheerful",
			Category:  "temperament",
			Modifiers: map[string]float64{"happiness_decay": 0.85},
			PlayMin:   8,
			PlayMax:   15,
		},
		{
			Name:      "Shy",
			Category:  "temperament",
			Modifiers: map[string]float64{"affection_bonus": 1.3},
			PlayMin:   3,
			PlayMax:   9,
		},
		{
			Name:      "Grumpy",
			Category:  "temperament",
			Modifiers: map[string]float64{"happiness_decay": 1.15},
			PlayMin:   1,
			PlayMax:   6,
		},
		{
			Name:      "Hyperactive",
			Category:  "temperament",
			Modifiers: map[string]float64{"fatigue_gain": 1.3},
			PlayMin:   6,
			PlayMax:   14,
		},
	},
	"appetite": {
		{
			Name:      "Picky",
			Category:  "appetite",
			Modifiers: map[string]float64{"feed_bonus": 0.75},
		},
		{
			Name:      "Glutton",
			Category:  "appetite",
			Modifiers: map[string]float64{"hunger_decay": 1.2, "feed_bonus": 1.25},
		},
	},
	"sociability": {
		{
			Name:      "Independent",
			Category:  "sociability",
			Modifiers: map[string]float64{"happiness_decay": 0.75},
		},
		{
			Name:      "Clingy",
			Category:  "sociability",
			Modifiers: map[string]float64{"happiness_decay": 1.15, "affection_bonus": 1.2},
		},
	},
	"constitution": {
		{
			Name:      "Robust",
			Category:  "constitution",
			Modifiers: map[string]float64{"illness_chance": 0.5, "hygiene_decay": 0.9},
		},
		{
			Name:      "Fragile",
			Category:  "constitution",
			Modifiers: map[string]float64{"illness_chance": 1.8, "hygiene_decay": 1.1},
		},
	},
}

// GenerateTraits assigns one random trait per category at birth
func GenerateTraits(r Rand) []Trait {
	traits := make([]Trait, 0, len(traitCategories))
	for _, category := range traitCategories {
		options := traitDefinitions[category]
		selected := options[r.Intn(len(options))]
		traits = append(traits, selected)
		slog.Debug("assigned trait", "category", selected.Category, "trait", selected.Name)
	}
	return traits
}

// TraitModifier returns the combined multiplier for a modifier key
func TraitModifier(traits []Trait, key string) float64 {
	multiplier := 1.0
	for _, trait := range traits {
		if mod, exists := trait.Modifiers[key]; exists {
			multiplier *= mod
		}
	}
	return multiplier
}

// PlayRange returns the happiness range a play session draws from.
func PlayRange(traits []Trait) (int, int) {
	for _, trait := range traits {
		if trait.PlayMax > 0 {
			return trait.PlayMin, trait.PlayMax
		}
	}
	return DefaultPlayMin, DefaultPlayMax
}

// TraitNames lists trait names for display.
func TraitNames(traits []Trait) []string {
	names := make([]string, 0, len(traits))
	for _, t := range traits {
		names = append(names, t.Name)
	}
	return names
}
