package users

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

// SetFreeCaseOpenedAt stores at, or clears the timestamp when at is nil.
func (r *usersRepo) SetFreeCaseOpenedAt(tx *sql.Tx, userID int64, at *time.Time) error {
	var value any
	if at != nil {
		value = *at
	}

	res, err := tx.Exec(`
		UPDATE users
		SET free_case_last_opened_at = $2
		WHERE id = $1
	`, userID, value)
	if err != nil {
		return fmt.Errorf("set free case timestamp: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}
