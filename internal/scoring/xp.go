package scoring

import (
	"math"

	"github.com/vytor/eartune/internal/models"
)

const (
	// BaseXP is awarded for any correct answer before multipliers.
	BaseXP = 10
	// PerfectBonus is added when accuracy is exactly 100.
	PerfectBonus = 25
)

var multipliers = map[string]float64{
	models.DifficultyBeginner:     1.0,
	models.DifficultyIntermediate: 1.5,
	models.DifficultyAdvanced:     2.0,
}

// Multiplier returns the XP multiplier for difficulty; unknown values get 1.0.
func Multiplier(difficulty string) float64 {
	if m, ok := multipliers[difficulty]; ok {
		return m
	}
	return 1.0
}

// IsPerfect reports whether accuracy earns the perfect bonus.
func IsPerfect(accuracy float64) bool {
	return accuracy == 100
}

// ComputeXP applies floor((baseXP + accuracy*0.5) * multiplier + perfect bonus).
func ComputeXP(baseXP int, accuracy float64, difficulty string, isPerfect bool) int {
	xp := (float64(baseXP) + accuracy*0.5) * Multiplier(difficulty)
	if isPerfect {
		xp += PerfectBonus
	}
	return int(math.Floor(xp))
}

// NoteXP is the fixed reward for naming a note. Difficulty does not apply.
func NoteXP(correct bool) int {
	if !correct {
		return 0
	}
	return BaseXP + PerfectBonus
}

// DiscreteXP scores EQ challenges, which are right or wrong but still carry a
// difficulty. A correct answer counts as perfect with no accuracy scale.
func DiscreteXP(correct bool, difficulty string) int {
	if !correct {
		return 0
	}
	return int(math.Floor(float64(BaseXP)*Multiplier(difficulty) + PerfectBonus))
}
