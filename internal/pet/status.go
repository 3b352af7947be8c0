package pet

// Mood is the presentation-facing feeling derived from stats
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodHungry  Mood = "hungry"
	MoodDirty   Mood = "dirty"
	MoodSad     Mood = "sad"
	MoodUnwell  Mood = "unwell"
	MoodTired   Mood = "tired"
	MoodSick    Mood = "sick"
	MoodGone    Mood = "gone"
)

// Activity is what the creature is visibly doing
type Activity string

const (
	ActivityIdle       Activity = "idle"
	ActivitySleeping   Activity = "sleeping"
	ActivityEating     Activity = "eating"
	ActivityShowering  Activity = "showering"
	ActivityBrushing   Activity = "brushing"
	ActivityPlaying    Activity = "playing"
	ActivityCleaning   Activity = "cleaning"
	ActivityMedicating Activity = "medicating"
	ActivityGone       Activity = "gone"
)

// DeriveMood computes the mood for a creature. Sickness overrides the
// stat-based rules; among critical stats the most severe one wins.
func DeriveMood(c Creature, abandoned bool, t Tuning) Mood {
	if abandoned {
		return MoodGone
	}
	if c.Sick {
		return MoodSick
	}

	type need struct {
		deficit int
		mood    Mood
	}

	// Ties go to the earlier entry
	needs := []need{
		{deficit: t.CriticalStat - c.Stats.Get(Health), mood: MoodUnwell},
		{deficit: t.CriticalStat - c.Stats.Get(Hunger), mood: MoodHungry},
		{deficit: c.Stats.Get(Fatigue) - (MaxStat - t.CriticalStat), mood: MoodTired},
		{deficit: t.CriticalStat - c.Stats.Get(Hygiene), mood: MoodDirty},
		{deficit: t.CriticalStat - c.Stats.Get(Happiness), mood: MoodSad},
	}

	best := need{deficit: 0}
	for _, n := range needs {
		if n.deficit > best.deficit {
			best = n
		}
	}
	if best.deficit > 0 {
		return best.mood
	}

	if compositeScore(c) >= t.HappyScore {
		return MoodHappy
	}
	return MoodNeutral
}

// compositeScore averages the wellbeing stats, counting rest as 100-fatigue.
func compositeScore(c Creature) int {
	s := c.Stats
	return (s.Get(Hunger) + s.Get(Hygiene) + s.Get(Happiness) + s.Get(Health) + (MaxStat - s.Get(Fatigue))) / 5
}

var actionActivities = map[ActionKind]Activity{
	ActionFeed:     ActivityEating,
	ActionClean:    ActivityCleaning,
	ActionBathe:    ActivityShowering,
	ActionBrush:    ActivityBrushing,
	ActionPlay:     ActivityPlaying,
	ActionMedicate: ActivityMedicating,
}

// DeriveActivity computes what the creature is doing. resolving is the care
// action whose resolution window is still open, if any.
func DeriveActivity(c Creature, resolving ActionKind, abandoned bool) Activity {
	if abandoned {
		return ActivityGone
	}
	if c.Asleep {
		return ActivitySleeping
	}
	if a, ok := actionActivities[resolving]; ok {
		return a
	}
	return ActivityIdle
}

// MoodEmoji returns the status emoji for a mood
func MoodEmoji(m Mood) string {
	switch m {
	case MoodHappy:
		return StatusEmojiHappy
	case MoodHungry:
		return StatusEmojiHungry
	case MoodDirty:
		return StatusEmojiDirty
	case MoodSad:
		return StatusEmojiSad
	case MoodUnwell:
		return StatusEmojiUnwell
	case MoodTired:
		return StatusEmojiTired
	case MoodSick:
		return StatusEmojiSick
	case MoodGone:
		return StatusEmojiGone
	default:
		return StatusEmojiNeutral
	}
}

// StatusLabel returns status with a text label for the UI
func StatusLabel(v View) string {
	if v.Dead {
		return StatusEmojiGone + " Gone"
	}
	if v.IsSleeping {
		return StatusEmojiSleeping + " Sleeping"
	}
	switch v.Mood {
	case MoodHappy:
		return StatusEmojiHappy + " Happy"
	case MoodHungry:
		return StatusEmojiHungry + " Hungry"
	case MoodDirty:
		return StatusEmojiDirty + " Dirty"
	case MoodSad:
		return StatusEmojiSad + " Sad"
	case MoodUnwell:
		return StatusEmojiUnwell + " Unwell"
	case MoodTired:
		return StatusEmojiTired + " Tired"
	case MoodSick:
		return StatusEmojiSick + " Sick"
	default:
		return StatusEmojiNeutral + " Okay"
	}
}
