package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

// DecreaseBalance never lets the balance go below zero: no row is updated
// when it would, and ErrInsufficientBalance is returned. A missing user is
// reported the same way.
func (r *usersRepo) DecreaseBalance(tx *sql.Tx, userID int64, amount int64) (int64, error) {
	var balance int64

	err := tx.QueryRow(`
		UPDATE users
		SET balance = balance - $2
		WHERE id = $1
		  AND balance >= $2
		RETURNING balance
	`, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrInsufficientBalance
		}

		return 0, fmt.Errorf("decrease balance: %w", err)
	}

	return balance, nil
}
