package pet

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownSpecies is returned when a species id has no registry entry.
var ErrUnknownSpecies = errors.New("unknown species")

// StageRule is what a creature needs to reach a stage automatically.
type StageRule struct {
	Level     int
	Affection int
}

// Species defines a creature line: its evolution thresholds, art and tuning.
type Species struct {
	ID    string
	Name  string
	Blurb string

	// Indexed by stage; index 0 is unused.
	Glyphs     [MaxStage + 1]string
	StageNames [MaxStage + 1]string

	// Rules for reaching stages 2 .. BoundaryStage
	Stages map[int]StageRule

	// Stars the evolve branch costs at the boundary stage
	RequiredStars int

	// Tune adjusts the default tuning table for this species
	Tune func(t *Tuning)
}

// Registry holds all available species keyed by ID.
var Registry = map[string]*Species{
	"jello":  jello,
	"mochi":  mochi,
	"puddin": puddin,
}

// OrderedIDs defines display order for species selection.
var OrderedIDs = []string{"jello", "mochi", "puddin"}

var jello = &Species{
	ID:         "jello",
	Name:       "Jello",
	Blurb:      "Wobbly, sweet, and easily startled",
	Glyphs:     [MaxStage + 1]string{"", "🫧", "🟢", "🍮", "🍧", "🌈"},
	StageNames: [MaxStage + 1]string{"", "Droplet", "Blob", "Jelly", "Parfait", "Prism"},
	Stages: map[int]StageRule{
		2: {Level: 10, Affection: 50},
		3: {Level: 20, Affection: 65},
		4: {Level: 30, Affection: 80},
	},
	RequiredStars: 5,
}

var mochi = &Species{
	ID:         "mochi",
	Name:       "Mochi",
	Blurb:      "Squishy and sleepy, loves a warm bath",
	Glyphs:     [MaxStage + 1]string{"", "⚪", "🍡", "🍙", "🎑", "🌕"},
	StageNames: [MaxStage + 1]string{"", "Dumpling", "Skewer", "Rice Ball", "Moon Viewer", "Full Moon"},
	Stages: map[int]StageRule{
		2: {Level: 8, Affection: 45},
		3: {Level: 18, Affection: 60},
		4: {Level: 28, Affection: 75},
	},
	RequiredStars: 8,
	Tune: func(t *Tuning) {
		t.FatigueAwakePerHour = 10
		t.HygienePerHour = 6
		t.SleepFatigue = 80
	},
}

var puddin = &Species{
	ID:         "puddin",
	Name:       "Puddin",
	Blurb:      "Always hungry, messy eater",
	Glyphs:     [MaxStage + 1]string{"", "🟤", "🍫", "🍩", "🎂", "👑"},
	StageNames: [MaxStage + 1]string{"", "Drop", "Truffle", "Donut", "Cake", "Royal Cake"},
	Stages: map[int]StageRule{
		2: {Level: 12, Affection: 40},
		3: {Level: 22, Affection: 55},
		4: {Level: 32, Affection: 70},
	},
	RequiredStars: 6,
	Tune: func(t *Tuning) {
		t.HungerPerHour = 15
		t.MessInterval = 70 * time.Second
		t.MessCap = 5
	},
}

// LookupSpecies returns the registry entry for id.
func LookupSpecies(id string) (*Species, error) {
	sp, ok := Registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, id)
	}
	return sp, nil
}

// Tuning returns the default tuning with this species' overrides applied.
func (s *Species) Tuning() Tuning {
	t := DefaultTuning()
	if s.Tune != nil {
		s.Tune(&t)
	}
	return t
}

// Glyph returns the art for stage, or the placeholder for an unknown stage.
func (s *Species) Glyph(stage int) string {
	if s == nil || stage < MinStage || stage > MaxStage || s.Glyphs[stage] == "" {
		return PlaceholderGlyph
	}
	return s.Glyphs[stage]
}

// StageName returns the display name for stage.
func (s *Species) StageName(stage int) string {
	if s == nil || stage < MinStage || stage > MaxStage || s.StageNames[stage] == "" {
		return "Unknown"
	}
	return s.StageNames[stage]
}
