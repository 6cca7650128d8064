// Package userstest provides an in-memory users.Users for service tests.
// Transactions are ignored; callers pass a nil *sql.Tx.
package userstest

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

type Memory struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]users.User
}

var _ users.Users = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{byID: make(map[int64]users.User)}
}

// Add stores u, assigning an id when u.ID is zero, and returns the id.
func (m *Memory) Add(u users.User) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID == 0 {
		m.nextID++
		u.ID = m.nextID
	}

	m.byID[u.ID] = u

	return u.ID
}

// User returns the stored user; the zero value when absent.
func (m *Memory) User(id int64) users.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.byID[id]
}

func (m *Memory) Create(_ *sql.Tx, n users.NewUser) (users.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.ExternalID == n.ExternalID {
			return u, false, nil
		}

		if u.ReferralCode == n.ReferralCode {
			return users.User{}, false, users.ErrReferralCodeTaken
		}
	}

	m.nextID++

	u := users.User{
		ID:           m.nextID,
		ExternalID:   n.ExternalID,
		Balance:      n.Balance,
		ReferrerID:   n.ReferrerID,
		ReferralCode: n.ReferralCode,
		CreatedAt:    time.Now(),
	}
	m.byID[u.ID] = u

	return u, true, nil
}

func (m *Memory) Get(_ context.Context, id int64) (users.User, error) {
	return m.get(id)
}

func (m *Memory) GetByExternalID(_ context.Context, externalID int64) (users.User, error) {
	return m.find(func(u users.User) bool { return u.ExternalID == externalID })
}

func (m *Memory) GetByReferralCode(_ context.Context, code string) (users.User, error) {
	return m.find(func(u users.User) bool { return u.ReferralCode == code })
}

func (m *Memory) LockForUpdate(_ *sql.Tx, id int64) (users.User, error) {
	return m.get(id)
}

func (m *Memory) IncreaseBalance(_ *sql.Tx, id, amount int64) (int64, error) {
	return m.update(id, func(u *users.User) error {
		u.Balance += amount

		return nil
	})
}

func (m *Memory) DecreaseBalance(_ *sql.Tx, id, amount int64) (int64, error) {
	return m.update(id, func(u *users.User) error {
		if u.Balance < amount {
			return users.ErrInsufficientBalance
		}

		u.Balance -= amount

		return nil
	})
}

func (m *Memory) SetFreeCaseOpenedAt(_ *sql.Tx, id int64, at *time.Time) error {
	_, err := m.update(id, func(u *users.User) error {
		u.FreeCaseLastOpenedAt = at

		return nil
	})

	return err
}

func (m *Memory) CountReferrals(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64

	for _, u := range m.byID {
		if u.ReferrerID != nil && *u.ReferrerID == id {
			n++
		}
	}

	return n, nil
}

func (m *Memory) get(id int64) (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}

	return u, nil
}

func (m *Memory) find(match func(users.User) bool) (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if match(u) {
			return u, nil
		}
	}

	return users.User{}, users.ErrUserNotFound
}

func (m *Memory) update(id int64, fn func(*users.User) error) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return 0, users.ErrUserNotFound
	}

	err := fn(&u)
	if err != nil {
		return 0, err
	}

	m.byID[id] = u

	return u.Balance, nil
}
