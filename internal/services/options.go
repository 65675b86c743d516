package services

import (
	"sync"
	"time"

	"github.com/vytor/eartune/internal/progression"
)

type options struct {
	now   func() time.Time
	loc   *time.Location
	locks *UserLocks
}

// Option configures the stateful services.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLocation sets the timezone that decides calendar days for streaks.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithUserLocks shares per-user serialisation between services that write
// the same profile.
func WithUserLocks(l *UserLocks) Option {
	return func(o *options) {
		if l != nil {
			o.locks = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now: func() time.Time { return time.Now().UTC() },
		loc: time.UTC,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locks == nil {
		o.locks = NewUserLocks()
	}
	return o
}

// today returns the calendar day of now in the configured location, as UTC midnight.
func (o options) today(now time.Time) time.Time {
	return progression.DateOf(now.In(o.loc))
}

// UserLocks serialises work per user. Different users never block each other.
type UserLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[int64]*userLock)}
}

// Lock blocks until userID is free and returns the matching unlock function.
func (l *UserLocks) Lock(userID int64) func() {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()

		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

func (l *UserLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
