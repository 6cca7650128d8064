package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

func (r *usersRepo) IncreaseBalance(tx *sql.Tx, userID int64, amount int64) (int64, error) {
	var balance int64

	err := tx.QueryRow(`
		UPDATE users
		SET balance = balance + $2
		WHERE id = $1
		RETURNING balance
	`, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("increase balance: %w", err)
	}

	return balance, nil
}
