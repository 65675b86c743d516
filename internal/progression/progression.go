package progression

import (
	"math"
	"time"

	"github.com/vytor/eartune/internal/models"
)

// xpPerLevelStep scales the square-root level curve: level n starts at 100*(n-1)^2 XP.
const xpPerLevelStep = 100

// LevelForXP returns 1 for zero XP and floor(sqrt(xp/100)) + 1 otherwise.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	n := int(math.Sqrt(float64(xp) / xpPerLevelStep))
	// Correct float drift at exact squares.
	for xpPerLevelStep*(n+1)*(n+1) <= xp {
		n++
	}
	for n > 0 && xpPerLevelStep*n*n > xp {
		n--
	}
	return n + 1
}

// XPForLevel returns the lowest XP that reaches level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return xpPerLevelStep * (level - 1) * (level - 1)
}

// Progress returns the XP earned inside the current level and the size of that level.
func Progress(xp int) (current, span int) {
	level := LevelForXP(xp)
	floor := XPForLevel(level)
	return xp - floor, XPForLevel(level+1) - floor
}

// NewProfile returns the profile a user starts with.
func NewProfile(userID int64, now time.Time) models.UserProfile {
	return models.UserProfile{
		UserID:    userID,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddXP adds amount to the profile and recomputes its level. It reports whether
// the level went up. Non-positive amounts are ignored.
func AddXP(p *models.UserProfile, amount int) bool {
	if amount <= 0 {
		return false
	}
	before := p.Level
	p.XP += amount
	p.Level = LevelForXP(p.XP)
	return p.Level > before
}

// RecordGame counts a judged submission.
func RecordGame(p *models.UserProfile, correct bool) {
	p.TotalGamesPlayed++
	if correct {
		p.TotalCorrectAnswers++
	}
}

// Accuracy returns the percentage of correct answers, 0 before any game.
func Accuracy(p models.UserProfile) float64 {
	if p.TotalGamesPlayed == 0 {
		return 0
	}
	return 100 * float64(p.TotalCorrectAnswers) / float64(p.TotalGamesPlayed)
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Yesterday returns the calendar day before today.
func Yesterday(today time.Time) time.Time {
	return DateOf(today).AddDate(0, 0, -1)
}

// UpdateStreak records activity on today. A repeat on the same day is a no-op,
// activity on the day after the last one extends the streak, anything else
// restarts it at 1. Both submissions and check-ins go through here.
func UpdateStreak(p *models.UserProfile, today time.Time) {
	day := DateOf(today)

	if p.LastActivityDate == nil {
		p.CurrentStreak = 1
	} else {
		last := DateOf(*p.LastActivityDate)
		switch {
		case last.Equal(day):
			return
		case last.Equal(Yesterday(day)):
			p.CurrentStreak++
		default:
			p.CurrentStreak = 1
		}
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.LastActivityDate = &day
}
