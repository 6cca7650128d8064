package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

func (r *usersRepo) Get(ctx context.Context, userID int64) (users.User, error) {
	return r.getBy(ctx, "id", userID)
}

func (r *usersRepo) GetByExternalID(ctx context.Context, externalID int64) (users.User, error) {
	return r.getBy(ctx, "external_id", externalID)
}

func (r *usersRepo) GetByReferralCode(ctx context.Context, code string) (users.User, error) {
	return r.getBy(ctx, "referral_code", code)
}

// getBy looks a user up by one of its unique columns. column is never user
// input.
func (r *usersRepo) getBy(ctx context.Context, column string, value any) (users.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+column+` = $1
	`, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}

		return users.User{}, fmt.Errorf("get user by %s: %w", column, err)
	}

	return u, nil
}
