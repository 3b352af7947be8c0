package pet

import "time"

// Game constants
const (
	DefaultPetName   = "Jello"
	DefaultSpeciesID = "jello"
	MaxStat          = 100
	MinStat          = 0
	MinStage         = 1
	BoundaryStage    = 4 // Stage at which the graduate/evolve decision is offered
	MaxStage         = 5
	MaxLevel         = 99
	PlaceholderGlyph = "❓"

	MaxCatchUp  = 24 * time.Hour // Offline time applied on restore is capped here
	catchUpStep = time.Minute

	// Care action effects
	FeedHungerIncrease    = 30
	FeedHappinessIncrease = 5
	CleanHygieneIncrease  = 5
	BatheHygieneIncrease  = 40
	BrushHygieneIncrease  = 10
	BrushAffectionGain    = 5
	PlayFatigueIncrease   = 10
	PlayStaminaDecrease   = 8
	PlayHungerDecrease    = 5
	PlayAffectionGain     = 3
	MedicineEffect        = 30
	RewardIntelligence    = 1

	// Default play happiness range when no temperament trait sets one
	DefaultPlayMin = 5
	DefaultPlayMax = 10
)

// Status emojis
const (
	StatusEmojiHappy    = "😸"
	StatusEmojiNeutral  = "🙂"
	StatusEmojiSleeping = "😴"
	StatusEmojiHungry   = "🙀"
	StatusEmojiDirty    = "🤢"
	StatusEmojiSad      = "😿"
	StatusEmojiUnwell   = "🤕"
	StatusEmojiTired    = "😾"
	StatusEmojiSick     = "🤒"
	StatusEmojiGone     = "💀"
)

// Tuning holds every rate, threshold and duration the simulation runs on.
// Species may override individual fields (see Species.Tune).
type Tuning struct {
	TickInterval time.Duration

	// Decay rates, per hour
	HungerPerHour       float64
	HygienePerHour      float64
	HappinessPerHour    float64
	FatigueAwakePerHour float64
	FatigueSleepPerHour float64 // recovery while asleep
	StaminaSleepPerHour float64
	HealthRegenPerHour  float64
	HealthLossPerHour   float64
	SleepDecayFactor    float64 // hunger/hygiene/happiness multiplier while asleep
	SickHappinessFactor float64 // happiness decay multiplier while sick
	SickRegenFactor     float64 // health regen multiplier while sick
	MessSoftCap         int     // messes tolerated before hygiene decay is biased
	MessHygieneBias     float64 // extra hygiene decay fraction per mess above the soft cap

	CriticalStat int // below this a stat drives a negative mood and health loss
	HealthyFloor int // hunger and hygiene above this allow passive health regen
	HappyScore   int // composite score for the happy mood

	// Sleep
	SleepFatigue int
	WakeFatigue  int
	NightStart   int // local hour
	NightEnd     int // local hour

	// Sickness
	SickHealth           int
	IllnessChancePerHour float64
	MinIllness           time.Duration

	// Abandonment
	NeglectGrace     time.Duration
	HungerFloor      int
	HealthFloor      int
	LeavingDuration  time.Duration
	CriticalDuration time.Duration
	DangerDuration   time.Duration

	// Nuisance entities
	MessCap          int
	PestCap          int
	MessInterval     time.Duration
	MessJitter       time.Duration
	PestInterval     time.Duration
	PestJitter       time.Duration
	MinEntitySpacing float64
	ClearDelay       time.Duration

	// Care actions
	ActionWindow       time.Duration
	FullThreshold      int
	VeryHappy          int
	VerySad            int
	HealthPenalty      int
	HungerPenalty      int
	SaturationPenalty  int
	ComfortBonus       int
	MessClearHygiene   int
	PestClearHappiness int
}

// DefaultTuning returns the baseline tuning table.
func DefaultTuning() Tuning {
	return Tuning{
		TickInterval: time.Second,

		HungerPerHour:       12,
		HygienePerHour:      8,
		HappinessPerHour:    6,
		FatigueAwakePerHour: 8,
		FatigueSleepPerHour: 25,
		StaminaSleepPerHour: 20,
		HealthRegenPerHour:  2,
		HealthLossPerHour:   4,
		SleepDecayFactor:    0.5,
		SickHappinessFactor: 2,
		SickRegenFactor:     0.5,
		MessSoftCap:         2,
		MessHygieneBias:     0.5,

		CriticalStat: 20,
		HealthyFloor: 40,
		HappyScore:   70,

		SleepFatigue: 85,
		WakeFatigue:  20,
		NightStart:   22,
		NightEnd:     6,

		SickHealth:           40,
		IllnessChancePerHour: 0.3,
		MinIllness:           30 * time.Minute,

		NeglectGrace:     8 * time.Hour,
		HungerFloor:      10,
		HealthFloor:      10,
		LeavingDuration:  30 * time.Minute,
		CriticalDuration: 20 * time.Minute,
		DangerDuration:   10 * time.Minute,

		MessCap:          4,
		PestCap:          3,
		MessInterval:     90 * time.Second,
		MessJitter:       30 * time.Second,
		PestInterval:     150 * time.Second,
		PestJitter:       60 * time.Second,
		MinEntitySpacing: 0.08,
		ClearDelay:       500 * time.Millisecond,

		ActionWindow:       800 * time.Millisecond,
		FullThreshold:      95,
		VeryHappy:          90,
		VerySad:            10,
		HealthPenalty:      4,
		HungerPenalty:      3,
		SaturationPenalty:  3,
		ComfortBonus:       3,
		MessClearHygiene:   3,
		PestClearHappiness: 2,
	}
}

// nightActive reports whether hour falls inside the night window.
// The window may wrap midnight.
func (t Tuning) nightActive(hour int) bool {
	if t.NightStart == t.NightEnd {
		return false
	}
	if t.NightStart < t.NightEnd {
		return hour >= t.NightStart && hour < t.NightEnd
	}
	return hour >= t.NightStart || hour < t.NightEnd
}
