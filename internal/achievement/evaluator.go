package achievement

import (
	"sort"
	"time"

	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/progression"
)

// Aggregates are the session-derived counts some criteria need.
type Aggregates struct {
	// PerfectScores counts the user's summary sessions whose score is exactly 100.
	PerfectScores int
}

// Unlock is one newly earned achievement.
type Unlock struct {
	Record  models.UserAchievement
	Summary models.AchievementSummary
}

// Evaluate unlocks every achievement in all that is not in unlocked and whose
// criteria the profile meets, in ascending ID order. Each unlock is added to
// unlocked and its XP reward is applied to p immediately. Criteria are checked
// against the profile as it was when Evaluate was called, so reward XP cannot
// unlock anything else in the same pass.
func Evaluate(p *models.UserProfile, unlocked map[int64]bool, all []models.Achievement, agg Aggregates, now time.Time) []Unlock {
	if unlocked == nil {
		unlocked = make(map[int64]bool)
	}
	snapshot := *p

	ordered := make([]models.Achievement, len(all))
	copy(ordered, all)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var unlocks []Unlock
	for _, a := range ordered {
		if unlocked[a.ID] {
			continue
		}
		if !Met(a, snapshot, agg) {
			continue
		}
		unlocked[a.ID] = true
		progression.AddXP(p, a.XPReward)
		unlocks = append(unlocks, Unlock{
			Record: models.UserAchievement{
				UserID:        p.UserID,
				AchievementID: a.ID,
				UnlockedAt:    now,
			},
			Summary: a.Summary(),
		})
	}
	return unlocks
}

// Met reports whether p satisfies a's criteria. Unknown criteria are never met.
func Met(a models.Achievement, p models.UserProfile, agg Aggregates) bool {
	switch a.CriteriaType {
	case models.CriteriaGamesPlayed:
		return p.TotalGamesPlayed >= a.CriteriaValue
	case models.CriteriaStreak:
		return p.CurrentStreak >= a.CriteriaValue
	case models.CriteriaLevel:
		return p.Level >= a.CriteriaValue
	case models.CriteriaAccuracy:
		if p.TotalGamesPlayed == 0 {
			return false
		}
		return progression.Accuracy(p) >= float64(a.CriteriaValue)
	case models.CriteriaPerfectScores:
		return agg.PerfectScores >= a.CriteriaValue
	default:
		return false
	}
}
