package openings

import (
	"context"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
)

func (r *openingsRepo) ListHeld(ctx context.Context, userID int64) ([]openings.Opening, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+openingColumns+`
		FROM openings
		WHERE user_id = $1 AND status = 'held'
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list held openings: %w", err)
	}

	return scanOpenings(rows)
}

func (r *openingsRepo) ListRecent(ctx context.Context, limit int) ([]openings.Opening, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+openingColumns+`
		FROM openings
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent openings: %w", err)
	}

	return scanOpenings(rows)
}

func (r *openingsRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM openings
		WHERE user_id = $1
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count openings: %w", err)
	}

	return n, nil
}
