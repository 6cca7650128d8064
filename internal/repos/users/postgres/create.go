package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

func (r *usersRepo) Create(tx *sql.Tx, nu users.NewUser) (users.User, bool, error) {
	var referrer any
	if nu.ReferrerID != nil {
		referrer = *nu.ReferrerID
	}

	u, err := scanUser(tx.QueryRow(`
		INSERT INTO users (external_id, balance, referrer_id, referral_code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING `+userColumns,
		nu.ExternalID, nu.Balance, referrer, nu.ReferralCode))
	if err == nil {
		return u, true, nil
	}

	if pgutils.IsUniqueViolation(err, "users_referral_code_key") {
		return users.User{}, false, users.ErrReferralCodeTaken
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return users.User{}, false, fmt.Errorf("insert user: %w", err)
	}

	// Lost the race on external_id: the row exists and is visible now.
	u, err = scanUser(tx.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE external_id = $1
	`, nu.ExternalID))
	if err != nil {
		return users.User{}, false, fmt.Errorf("select existing user: %w", err)
	}

	return u, false, nil
}
