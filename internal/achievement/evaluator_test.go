package achievement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eartune/internal/achievement"
	"github.com/vytor/eartune/internal/models"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func catalog() []models.Achievement {
	return []models.Achievement{
		{ID: 3, Name: "Getting Started", CriteriaType: models.CriteriaLevel, CriteriaValue: 2, XPReward: 100},
		{ID: 1, Name: "First Steps", Icon: "🎵", Description: "Complete your first game", CriteriaType: models.CriteriaGamesPlayed, CriteriaValue: 1, XPReward: 50},
		{ID: 2, Name: "Sharp Ear", CriteriaType: models.CriteriaAccuracy, CriteriaValue: 90, XPReward: 100},
		{ID: 4, Name: "Hat Trick", CriteriaType: models.CriteriaStreak, CriteriaValue: 3, XPReward: 75},
		{ID: 5, Name: "Perfect Ten", CriteriaType: models.CriteriaPerfectScores, CriteriaValue: 10, XPReward: 250},
	}
}

func TestEvaluate_UnlocksInIDOrderAndAwardsXP(t *testing.T) {
	p := &models.UserProfile{UserID: 9, XP: 35, Level: 1, TotalGamesPlayed: 1, TotalCorrectAnswers: 1, CurrentStreak: 1}
	unlocked := map[int64]bool{}

	unlocks := achievement.Evaluate(p, unlocked, catalog(), achievement.Aggregates{}, now)

	require.Len(t, unlocks, 2)
	assert.Equal(t, int64(1), unlocks[0].Summary.ID)
	assert.Equal(t, "First Steps", unlocks[0].Summary.Name)
	assert.Equal(t, "🎵", unlocks[0].Summary.Icon)
	assert.Equal(t, 50, unlocks[0].Summary.XPReward)
	assert.Equal(t, int64(2), unlocks[1].Summary.ID)

	assert.Equal(t, int64(9), unlocks[0].Record.UserID)
	assert.Equal(t, now, unlocks[0].Record.UnlockedAt)

	assert.Equal(t, 185, p.XP)
	assert.Equal(t, 2, p.Level, "reward XP still moves the level")
	assert.True(t, unlocked[1])
	assert.True(t, unlocked[2])
}

func TestEvaluate_RewardXPDoesNotCascadeInSamePass(t *testing.T) {
	p := &models.UserProfile{UserID: 9, XP: 35, Level: 1, TotalGamesPlayed: 1, TotalCorrectAnswers: 1}
	unlocked := map[int64]bool{}

	unlocks := achievement.Evaluate(p, unlocked, catalog(), achievement.Aggregates{}, now)
	for _, u := range unlocks {
		assert.NotEqual(t, int64(3), u.Summary.ID)
	}
	assert.Equal(t, 2, p.Level)

	// A later pass sees the new level.
	again := achievement.Evaluate(p, unlocked, catalog(), achievement.Aggregates{}, now)
	require.Len(t, again, 1)
	assert.Equal(t, int64(3), again[0].Summary.ID)
}

func TestEvaluate_NeverUnlocksTwice(t *testing.T) {
	p := &models.UserProfile{UserID: 1, XP: 400, Level: 3, TotalGamesPlayed: 20, TotalCorrectAnswers: 20, CurrentStreak: 5}
	unlocked := map[int64]bool{}
	agg := achievement.Aggregates{PerfectScores: 12}

	first := achievement.Evaluate(p, unlocked, catalog(), agg, now)
	require.Len(t, first, 5)
	xpAfterFirst := p.XP

	for i := 0; i < 3; i++ {
		assert.Empty(t, achievement.Evaluate(p, unlocked, catalog(), agg, now))
	}
	assert.Equal(t, xpAfterFirst, p.XP)
	assert.Len(t, unlocked, 5)
}

func TestEvaluate_SkipsAlreadyUnlocked(t *testing.T) {
	p := &models.UserProfile{UserID: 1, Level: 1, TotalGamesPlayed: 1, TotalCorrectAnswers: 0}

	unlocks := achievement.Evaluate(p, map[int64]bool{1: true}, catalog(), achievement.Aggregates{}, now)

	assert.Empty(t, unlocks)
	assert.Equal(t, 0, p.XP)
}

func TestEvaluate_DuplicateDefinitionUnlocksOnce(t *testing.T) {
	p := &models.UserProfile{UserID: 1, Level: 1, TotalGamesPlayed: 1}
	defs := []models.Achievement{
		{ID: 1, CriteriaType: models.CriteriaGamesPlayed, CriteriaValue: 1, XPReward: 50},
		{ID: 1, CriteriaType: models.CriteriaGamesPlayed, CriteriaValue: 1, XPReward: 50},
	}

	unlocks := achievement.Evaluate(p, map[int64]bool{}, defs, achievement.Aggregates{}, now)

	assert.Len(t, unlocks, 1)
	assert.Equal(t, 50, p.XP)
}

func TestMet(t *testing.T) {
	fresh := models.UserProfile{Level: 1}
	accuracy := models.Achievement{CriteriaType: models.CriteriaAccuracy, CriteriaValue: 0}
	assert.False(t, achievement.Met(accuracy, fresh, achievement.Aggregates{}), "accuracy needs at least one game")

	played := models.UserProfile{Level: 1, TotalGamesPlayed: 10, TotalCorrectAnswers: 9}
	assert.True(t, achievement.Met(models.Achievement{CriteriaType: models.CriteriaAccuracy, CriteriaValue: 90}, played, achievement.Aggregates{}))
	assert.False(t, achievement.Met(models.Achievement{CriteriaType: models.CriteriaAccuracy, CriteriaValue: 91}, played, achievement.Aggregates{}))

	perfect := models.Achievement{CriteriaType: models.CriteriaPerfectScores, CriteriaValue: 2}
	assert.True(t, achievement.Met(perfect, fresh, achievement.Aggregates{PerfectScores: 2}))
	assert.False(t, achievement.Met(perfect, fresh, achievement.Aggregates{PerfectScores: 1}))

	assert.False(t, achievement.Met(models.Achievement{CriteriaType: "speedrun", CriteriaValue: 0}, played, achievement.Aggregates{}))
}
