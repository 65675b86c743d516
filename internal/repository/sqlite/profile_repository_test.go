package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/eartune/internal/repository"
	"github.com/vytor/eartune/internal/repository/sqlite"
	"github.com/vytor/eartune/internal/testutil"
)

type ProfileRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProfileRepository
	now  time.Time
}

func (s *ProfileRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProfileRepository(s.db)
	s.now = time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
}

func (s *ProfileRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProfileRepositorySuite) TestGetOrCreate() {
	ctx := context.Background()

	p, err := s.repo.GetOrCreate(ctx, 42, s.now)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Assert().Equal(int64(42), p.UserID)
	s.Assert().Equal(1, p.Level)
	s.Assert().Equal(0, p.XP)
	s.Assert().Nil(p.LastActivityDate)

	p.XP = 150
	p.Level = 2
	s.Require().NoError(s.repo.Update(ctx, *p))

	again, err := s.repo.GetOrCreate(ctx, 42, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Assert().Equal(150, again.XP, "an existing profile is returned unchanged")
	s.Assert().True(s.now.Equal(again.CreatedAt))
}

func (s *ProfileRepositorySuite) TestGet_NotFound() {
	p, err := s.repo.Get(context.Background(), 1)
	s.Assert().NoError(err)
	s.Assert().Nil(p)
}

func (s *ProfileRepositorySuite) TestUpdate_RoundTripsActivityDate() {
	ctx := context.Background()

	p, err := s.repo.GetOrCreate(ctx, 1, s.now)
	s.Require().NoError(err)

	day := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	p.CurrentStreak = 4
	p.LongestStreak = 9
	p.LastActivityDate = &day
	p.TotalGamesPlayed = 12
	p.TotalCorrectAnswers = 10
	s.Require().NoError(s.repo.Update(ctx, *p))

	got, err := s.repo.Get(ctx, 1)
	s.Require().NoError(err)
	s.Assert().Equal(4, got.CurrentStreak)
	s.Assert().Equal(9, got.LongestStreak)
	s.Assert().Equal(12, got.TotalGamesPlayed)
	s.Require().NotNil(got.LastActivityDate)
	s.Assert().True(day.Equal(*got.LastActivityDate))
}

func (s *ProfileRepositorySuite) TestTop() {
	ctx := context.Background()

	for userID, xp := range map[int64]int{1: 100, 2: 900, 3: 400, 4: 400} {
		p, err := s.repo.GetOrCreate(ctx, userID, s.now)
		s.Require().NoError(err)
		p.XP = xp
		s.Require().NoError(s.repo.Update(ctx, *p))
	}

	top, err := s.repo.Top(ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Assert().Equal(int64(2), top[0].UserID)
	s.Assert().Equal(1, top[0].Rank)
	s.Assert().Equal(int64(3), top[1].UserID, "ties break on user id")
	s.Assert().Equal(int64(4), top[2].UserID)
	s.Assert().Equal(3, top[2].Rank)
}

func (s *ProfileRepositorySuite) TestLapsedStreaksAndReset() {
	ctx := context.Background()
	today := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	lastWeek := today.AddDate(0, 0, -7)

	for userID, last := range map[int64]time.Time{1: today, 2: yesterday, 3: lastWeek, 4: lastWeek} {
		p, err := s.repo.GetOrCreate(ctx, userID, s.now)
		s.Require().NoError(err)
		day := last
		p.LastActivityDate = &day
		p.CurrentStreak = 3
		p.LongestStreak = 3
		if userID == 4 {
			p.CurrentStreak = 0
		}
		s.Require().NoError(s.repo.Update(ctx, *p))
	}

	ids, err := s.repo.LapsedStreaks(ctx, yesterday)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{3}, ids)

	changed, err := s.repo.ResetStreak(ctx, 3, yesterday, s.now)
	s.Require().NoError(err)
	s.Assert().True(changed)

	lapsed, err := s.repo.Get(ctx, 3)
	s.Require().NoError(err)
	s.Assert().Equal(0, lapsed.CurrentStreak)
	s.Assert().Equal(3, lapsed.LongestStreak)

	changed, err = s.repo.ResetStreak(ctx, 2, yesterday, s.now)
	s.Require().NoError(err)
	s.Assert().False(changed, "a streak active yesterday is kept")

	kept, err := s.repo.Get(ctx, 2)
	s.Require().NoError(err)
	s.Assert().Equal(3, kept.CurrentStreak)
}

func (s *ProfileRepositorySuite) TestResetStreak_SkipsFreshActivity() {
	ctx := context.Background()
	yesterday := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	p, err := s.repo.GetOrCreate(ctx, 1, s.now)
	s.Require().NoError(err)
	old := yesterday.AddDate(0, 0, -3)
	p.LastActivityDate = &old
	p.CurrentStreak = 2
	s.Require().NoError(s.repo.Update(ctx, *p))

	ids, err := s.repo.LapsedStreaks(ctx, yesterday)
	s.Require().NoError(err)
	s.Require().Equal([]int64{1}, ids)

	// The user plays between listing and reset.
	today := yesterday.AddDate(0, 0, 1)
	p.LastActivityDate = &today
	p.CurrentStreak = 1
	s.Require().NoError(s.repo.Update(ctx, *p))

	changed, err := s.repo.ResetStreak(ctx, 1, yesterday, s.now)
	s.Require().NoError(err)
	s.Assert().False(changed)

	got, err := s.repo.Get(ctx, 1)
	s.Require().NoError(err)
	s.Assert().Equal(1, got.CurrentStreak)
}

func TestProfileRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProfileRepositorySuite))
}
