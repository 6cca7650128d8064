package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

// LockForUpdate reads the user row and holds its lock until tx ends. Every
// mutating operation on a user starts here.
func (r *usersRepo) LockForUpdate(tx *sql.Tx, userID int64) (users.User, error) {
	u, err := scanUser(tx.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}

		return users.User{}, fmt.Errorf("lock user: %w", err)
	}

	return u, nil
}
