package users

import (
	"database/sql"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

var _ users.Users = (*usersRepo)(nil)

const userColumns = `id, external_id, balance, free_case_last_opened_at, referrer_id, referral_code, created_at`

type usersRepo struct{ db *sql.DB }

func New(db *sql.DB) *usersRepo {
	return &usersRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (users.User, error) {
	var (
		u        users.User
		lastFree sql.NullTime
		referrer sql.NullInt64
	)

	err := row.Scan(&u.ID, &u.ExternalID, &u.Balance, &lastFree, &referrer, &u.ReferralCode, &u.CreatedAt)
	if err != nil {
		return users.User{}, err
	}

	if lastFree.Valid {
		at := lastFree.Time
		u.FreeCaseLastOpenedAt = &at
	}
	if referrer.Valid {
		id := referrer.Int64
		u.ReferrerID = &id
	}

	return u, nil
}
