package progression_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/progression"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLevelForXP_Checkpoints(t *testing.T) {
	assert.Equal(t, 1, progression.LevelForXP(0))
	assert.Equal(t, 1, progression.LevelForXP(99))
	assert.Equal(t, 2, progression.LevelForXP(100))
	assert.Equal(t, 2, progression.LevelForXP(399))
	assert.Equal(t, 3, progression.LevelForXP(400))
	assert.Equal(t, 4, progression.LevelForXP(900))
	assert.Equal(t, 11, progression.LevelForXP(10000))
}

func TestLevelForXP_NonDecreasing(t *testing.T) {
	prev := progression.LevelForXP(0)
	for xp := 1; xp <= 50000; xp++ {
		level := progression.LevelForXP(xp)
		require.GreaterOrEqual(t, level, prev, "level dropped at xp=%d", xp)
		prev = level
	}
}

func TestXPForLevel_InvertsLevelForXP(t *testing.T) {
	for level := 1; level <= 60; level++ {
		xp := progression.XPForLevel(level)
		assert.Equal(t, level, progression.LevelForXP(xp))
		if xp > 0 {
			assert.Equal(t, level-1, progression.LevelForXP(xp-1))
		}
	}
}

func TestProgress(t *testing.T) {
	current, span := progression.Progress(250)

	assert.Equal(t, 150, current)
	assert.Equal(t, 300, span)
}

func TestAddXP_LevelUp(t *testing.T) {
	p := progression.NewProfile(1, time.Now())

	assert.False(t, progression.AddXP(&p, 35))
	assert.Equal(t, 1, p.Level)

	assert.True(t, progression.AddXP(&p, 70))
	assert.Equal(t, 105, p.XP)
	assert.Equal(t, 2, p.Level)
}

func TestAddXP_IgnoresNonPositive(t *testing.T) {
	p := progression.NewProfile(1, time.Now())
	p.XP, p.Level = 150, 2

	assert.False(t, progression.AddXP(&p, -100))
	assert.False(t, progression.AddXP(&p, 0))
	assert.Equal(t, 150, p.XP)
}

func TestRecordGame(t *testing.T) {
	p := progression.NewProfile(1, time.Now())

	progression.RecordGame(&p, true)
	progression.RecordGame(&p, false)

	assert.Equal(t, 2, p.TotalGamesPlayed)
	assert.Equal(t, 1, p.TotalCorrectAnswers)
	assert.InDelta(t, 50.0, progression.Accuracy(p), 0.001)
}

func TestUpdateStreak_FirstActivity(t *testing.T) {
	p := progression.NewProfile(1, time.Now())
	today := date(2026, 10, 17)

	progression.UpdateStreak(&p, today)

	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.LongestStreak)
	require.NotNil(t, p.LastActivityDate)
	assert.True(t, p.LastActivityDate.Equal(today))
}

func TestUpdateStreak_Yesterday(t *testing.T) {
	yesterday := date(2026, 10, 16)
	p := models.UserProfile{CurrentStreak: 2, LongestStreak: 5, LastActivityDate: &yesterday}

	progression.UpdateStreak(&p, date(2026, 10, 17))

	assert.Equal(t, 3, p.CurrentStreak)
	assert.Equal(t, 5, p.LongestStreak, "longest only moves when exceeded")
	assert.True(t, p.LastActivityDate.Equal(date(2026, 10, 17)))

	p.CurrentStreak, p.LongestStreak = 5, 5
	last := date(2026, 10, 17)
	p.LastActivityDate = &last
	progression.UpdateStreak(&p, date(2026, 10, 18))
	assert.Equal(t, 6, p.LongestStreak)
}

func TestUpdateStreak_SameDayIsIdempotent(t *testing.T) {
	yesterday := date(2026, 10, 16)
	p := models.UserProfile{CurrentStreak: 2, LongestStreak: 2, LastActivityDate: &yesterday}
	today := date(2026, 10, 17)

	progression.UpdateStreak(&p, today)
	after := p
	progression.UpdateStreak(&p, today.Add(15*time.Hour))

	assert.Equal(t, after.CurrentStreak, p.CurrentStreak)
	assert.Equal(t, 3, p.CurrentStreak)
	assert.Equal(t, after.LongestStreak, p.LongestStreak)
}

func TestUpdateStreak_GapResets(t *testing.T) {
	last := date(2026, 10, 10)
	p := models.UserProfile{CurrentStreak: 7, LongestStreak: 7, LastActivityDate: &last}

	progression.UpdateStreak(&p, date(2026, 10, 17))

	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 7, p.LongestStreak)
	assert.True(t, p.LastActivityDate.Equal(date(2026, 10, 17)))
}

func TestUpdateStreak_AcrossMonthBoundary(t *testing.T) {
	last := date(2026, 2, 28)
	p := models.UserProfile{CurrentStreak: 1, LongestStreak: 1, LastActivityDate: &last}

	progression.UpdateStreak(&p, date(2026, 3, 1))

	assert.Equal(t, 2, p.CurrentStreak)
}

func TestUpdateStreak_UsesLocalCalendarDay(t *testing.T) {
	lisbon := time.FixedZone("WEST", 3600)
	last := date(2026, 10, 16)
	p := models.UserProfile{CurrentStreak: 1, LongestStreak: 1, LastActivityDate: &last}

	// 00:30 local on the 17th is still the 16th in UTC.
	progression.UpdateStreak(&p, time.Date(2026, 10, 17, 0, 30, 0, 0, lisbon))

	assert.Equal(t, 2, p.CurrentStreak)
}
