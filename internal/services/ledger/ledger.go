// Package ledger is the only place balances change.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

var ErrNegativeAmount = errors.New("negative amount")

type Ledger struct {
	users users.Users
}

func New(u users.Users) *Ledger {
	return &Ledger{users: u}
}

// Credit adds amount to the user's balance inside tx and returns the new
// balance. A zero amount is allowed and leaves the balance as is.
func (l *Ledger) Credit(tx *sql.Tx, userID, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit %d: %w", amount, ErrNegativeAmount)
	}

	balance, err := l.users.IncreaseBalance(tx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("credit: %w", err)
	}

	return balance, nil
}

// Debit subtracts amount inside tx. The user row is locked first; the
// balance is checked against the locked value and the update itself is
// guarded, so the balance never goes below zero.
func (l *Ledger) Debit(tx *sql.Tx, userID, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("debit %d: %w", amount, ErrNegativeAmount)
	}

	u, err := l.users.LockForUpdate(tx, userID)
	if err != nil {
		return 0, fmt.Errorf("lock user: %w", err)
	}

	if u.Balance < amount {
		return 0, fmt.Errorf("pre-check debit: %w", users.ErrInsufficientBalance)
	}

	balance, err := l.users.DecreaseBalance(tx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("debit: %w", err)
	}

	return balance, nil
}
