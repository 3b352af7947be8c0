package pet

import (
	"math"
	"time"
)

// fractionEpsilon absorbs float drift so that many short steps and one long
// step truncate to the same whole amount.
const fractionEpsilon = 1e-9

// decayRates returns the per-hour change of each stat for the creature's
// current condition. messCount is the number of outstanding messes.
func (c *Creature) decayRates(messCount int, t Tuning) [statCount]float64 {
	var rates [statCount]float64

	rates[Hunger] = -t.HungerPerHour * c.modifier("hunger_decay")
	rates[Hygiene] = -t.HygienePerHour * c.modifier("hygiene_decay")
	rates[Happiness] = -t.HappinessPerHour * c.modifier("happiness_decay")

	// Uncleared mess above the soft cap makes the room dirtier faster
	if extra := messCount - t.MessSoftCap; extra > 0 {
		rates[Hygiene] *= 1 + t.MessHygieneBias*float64(extra)
	}

	if c.Asleep {
		rates[Hunger] *= t.SleepDecayFactor
		rates[Hygiene] *= t.SleepDecayFactor
		rates[Happiness] *= t.SleepDecayFactor
		rates[Fatigue] = -t.FatigueSleepPerHour
		rates[Stamina] = t.StaminaSleepPerHour
	} else {
		rates[Fatigue] = t.FatigueAwakePerHour * c.modifier("fatigue_gain")
	}

	if c.Sick {
		rates[Happiness] *= t.SickHappinessFactor
	}

	hunger, hygiene := c.Stats.Get(Hunger), c.Stats.Get(Hygiene)
	switch {
	case hunger < t.CriticalStat || hygiene < t.CriticalStat:
		rates[Health] = -t.HealthLossPerHour
		if c.Asleep {
			rates[Health] *= t.SleepDecayFactor
		}
	case hunger >= t.HealthyFloor && hygiene >= t.HealthyFloor:
		rates[Health] = t.HealthRegenPerHour
		if c.Sick {
			rates[Health] *= t.SickRegenFactor
		}
	}

	return rates
}

// decay applies elapsed time to the creature's vitals.
func (c *Creature) decay(elapsed time.Duration, messCount int, t Tuning) {
	if elapsed <= 0 {
		return
	}
	hours := elapsed.Hours()
	rates := c.decayRates(messCount, t)
	for stat := Stat(0); stat < statCount; stat++ {
		if rates[stat] != 0 {
			c.accumulate(stat, rates[stat]*hours)
		}
	}
}

// accumulate adds a fractional amount to stat, moving whole units into the
// stat and keeping the remainder for the next call.
func (c *Creature) accumulate(stat Stat, amount float64) {
	c.Fractions[stat] += amount
	frac := c.Fractions[stat]
	whole := int(math.Trunc(frac + math.Copysign(fractionEpsilon, frac)))
	if whole != 0 {
		c.Fractions[stat] -= float64(whole)
		c.Stats.Add(stat, whole)
	}

	// A pinned stat must not bank change it cannot apply
	v := c.Stats.Get(stat)
	if (v == MaxStat && c.Fractions[stat] > 0) || (v == MinStat && c.Fractions[stat] < 0) {
		c.Fractions[stat] = 0
	}
}
