package openings

import (
	"database/sql"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
)

var _ openings.Openings = (*openingsRepo)(nil)

const openingColumns = `id, user_id, case_id, reward_id, reward_name, reward_category, reward_value, status, created_at, finalized_at`

type openingsRepo struct{ db *sql.DB }

func New(db *sql.DB) *openingsRepo {
	return &openingsRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOpening(row rowScanner) (openings.Opening, error) {
	var (
		o         openings.Opening
		status    string
		finalized sql.NullTime
	)

	err := row.Scan(&o.ID, &o.UserID, &o.CaseID, &o.RewardID, &o.RewardName, &o.RewardCategory,
		&o.RewardValue, &status, &o.CreatedAt, &finalized)
	if err != nil {
		return openings.Opening{}, err
	}

	o.Status = openings.Status(status)

	if finalized.Valid {
		at := finalized.Time
		o.FinalizedAt = &at
	}

	return o, nil
}

func scanOpenings(rows *sql.Rows) ([]openings.Opening, error) {
	defer rows.Close()

	var out []openings.Opening

	for rows.Next() {
		o, err := scanOpening(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opening: %w", err)
		}

		out = append(out, o)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate openings: %w", err)
	}

	return out, nil
}
