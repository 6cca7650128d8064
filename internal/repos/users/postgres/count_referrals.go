package users

import (
	"context"
	"fmt"
)

func (r *usersRepo) CountReferrals(ctx context.Context, userID int64) (int64, error) {
	var n int64

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM users
		WHERE referrer_id = $1
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count referrals: %w", err)
	}

	return n, nil
}
