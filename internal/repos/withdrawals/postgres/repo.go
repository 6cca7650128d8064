package withdrawals

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/repos/withdrawals"
)

var _ withdrawals.Withdrawals = (*withdrawalsRepo)(nil)

type withdrawalsRepo struct{ db *sql.DB }

func New(db *sql.DB) *withdrawalsRepo {
	return &withdrawalsRepo{db: db}
}

func (r *withdrawalsRepo) Enqueue(tx *sql.Tx, openingID, userID int64) (withdrawals.Withdrawal, error) {
	w := withdrawals.Withdrawal{OpeningID: openingID, UserID: userID, Status: withdrawals.StatusPending}

	err := tx.QueryRow(`
		INSERT INTO withdrawals (opening_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, openingID, userID).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return withdrawals.Withdrawal{}, fmt.Errorf("enqueue withdrawal: %w", err)
	}

	return w, nil
}

func (r *withdrawalsRepo) ClaimPending(ctx context.Context, limit int, staleBefore time.Time) ([]withdrawals.Withdrawal, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE withdrawals w
		SET status = 'processing', updated_at = now()
		FROM openings o
		WHERE o.id = w.opening_id
		  AND w.id IN (
			SELECT id
			FROM withdrawals
			WHERE status = 'pending'
			   OR (status = 'processing' AND updated_at < $2)
			ORDER BY id
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		  )
		RETURNING w.id, w.opening_id, w.user_id, w.status, w.attempts, w.last_error,
		          o.reward_name, o.reward_value, w.created_at, w.updated_at
	`, limit, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("claim withdrawals: %w", err)
	}
	defer rows.Close()

	var out []withdrawals.Withdrawal

	for rows.Next() {
		var (
			w      withdrawals.Withdrawal
			status string
		)

		err = rows.Scan(&w.ID, &w.OpeningID, &w.UserID, &status, &w.Attempts, &w.LastError,
			&w.RewardName, &w.RewardValue, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}

		w.Status = withdrawals.Status(status)
		out = append(out, w)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate withdrawals: %w", err)
	}

	return out, nil
}

func (r *withdrawalsRepo) MarkCompleted(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE withdrawals
		SET status = 'completed', attempts = attempts + 1, last_error = '', updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("complete withdrawal: %w", err)
	}

	return nil
}

func (r *withdrawalsRepo) MarkFailed(ctx context.Context, id int64, reason string, maxAttempts int) (withdrawals.Status, error) {
	var status string

	err := r.db.QueryRowContext(ctx, `
		UPDATE withdrawals
		SET attempts = attempts + 1,
		    last_error = $2,
		    status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'pending' END,
		    updated_at = now()
		WHERE id = $1
		RETURNING status
	`, id, reason, maxAttempts).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("fail withdrawal: %w", err)
	}

	return withdrawals.Status(status), nil
}
