// Package cooldown gates the free case: one open per period per user.
package cooldown

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

// DefaultPeriod is the time between two free opens.
const DefaultPeriod = 24 * time.Hour

var ErrCooldownActive = errors.New("free case on cooldown")

// ActiveError carries how long the user still has to wait. It matches
// ErrCooldownActive with errors.Is.
type ActiveError struct {
	Until     time.Time
	Remaining time.Duration
}

func (e *ActiveError) Error() string {
	return fmt.Sprintf("%s: available in %ds", ErrCooldownActive, e.RemainingSeconds())
}

func (e *ActiveError) Is(target error) bool { return target == ErrCooldownActive }

// RemainingSeconds rounds up, so a user is never told 0 while still blocked.
func (e *ActiveError) RemainingSeconds() int64 {
	return ceilSeconds(e.Remaining)
}

// Status is the read-only view of a user's free case.
type Status struct {
	Available bool
	Until     time.Time
	Remaining time.Duration
}

func (s Status) RemainingSeconds() int64 { return ceilSeconds(s.Remaining) }

// Evaluate decides availability from the last open. A last open in the
// future (clock moved back) counts as a full period from that instant.
func Evaluate(lastOpened *time.Time, now time.Time, period time.Duration) Status {
	if lastOpened == nil {
		return Status{Available: true}
	}

	until := lastOpened.Add(period)
	if !now.Before(until) {
		return Status{Available: true}
	}

	return Status{Until: until, Remaining: until.Sub(now)}
}

type Tracker struct {
	users  users.Users
	period time.Duration
}

// New returns a tracker; a non-positive period falls back to DefaultPeriod.
func New(u users.Users, period time.Duration) *Tracker {
	if period <= 0 {
		period = DefaultPeriod
	}

	return &Tracker{users: u, period: period}
}

func (t *Tracker) Period() time.Duration { return t.period }

func (t *Tracker) Status(u users.User, now time.Time) Status {
	return Evaluate(u.FreeCaseLastOpenedAt, now, t.period)
}

// CheckAndConsume locks the user and, when the free case is available,
// records now as the last open. Otherwise it returns *ActiveError and
// changes nothing. The caller's rollback undoes the consumption.
func (t *Tracker) CheckAndConsume(tx *sql.Tx, userID int64, now time.Time) error {
	u, err := t.users.LockForUpdate(tx, userID)
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}

	st := t.Status(u, now)
	if !st.Available {
		return &ActiveError{Until: st.Until, Remaining: st.Remaining}
	}

	err = t.users.SetFreeCaseOpenedAt(tx, userID, &now)
	if err != nil {
		return fmt.Errorf("consume free case: %w", err)
	}

	return nil
}

// Reset makes the free case available again.
func (t *Tracker) Reset(tx *sql.Tx, userID int64) error {
	_, err := t.users.LockForUpdate(tx, userID)
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}

	err = t.users.SetFreeCaseOpenedAt(tx, userID, nil)
	if err != nil {
		return fmt.Errorf("reset free case: %w", err)
	}

	return nil
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}

	return int64((d + time.Second - 1) / time.Second)
}
