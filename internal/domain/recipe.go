// Package domain defines the core types and interfaces for the recipe deck.
// All other packages depend on domain; domain depends on nothing.
package domain

import "time"

// Recipe is one card in the deck.
type Recipe struct {
	ID          string
	Index       int // position in the deck
	Name        string
	Ingredients []Ingredient
	Steps       []Step

	// Running statistics. MeanDurationSeconds is 0 while TimesCooked is 0.
	TimesCooked         int
	MeanDurationSeconds int
}

// Ingredient is a single line of the ingredient list. Count is free text
// such as "200 g" or "a pinch".
type Ingredient struct {
	Name    string
	Count   string
	Comment string
}

// Step is a single cooking step with an optional alarm.
type Step struct {
	Instruction string
	Alarm       time.Duration // 0 if the step has no timer
}

// HasAlarm reports whether the step carries a timer.
func (s Step) HasAlarm() bool {
	return s.Alarm > 0
}

// MeanDuration returns the recorded mean cooking time, or 0 if the
// recipe has never been cooked.
func (r *Recipe) MeanDuration() time.Duration {
	if r.TimesCooked == 0 {
		return 0
	}
	return time.Duration(r.MeanDurationSeconds) * time.Second
}

// UpdateCookingStats folds one more cooking duration into the recipe's
// running mean using integer division. Negative durations count as 0.
func UpdateCookingStats(r *Recipe, newDurationSeconds int) {
	if newDurationSeconds < 0 {
		newDurationSeconds = 0
	}
	if r.TimesCooked <= 0 {
		r.TimesCooked = 0
		r.MeanDurationSeconds = 0
	}
	totalOld := r.MeanDurationSeconds * r.TimesCooked
	r.TimesCooked++
	r.MeanDurationSeconds = (totalOld + newDurationSeconds) / r.TimesCooked
}
