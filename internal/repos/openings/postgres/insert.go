package openings

import (
	"database/sql"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
)

// Insert stores a new opening. Terminal statuses get finalized_at set at once.
func (r *openingsRepo) Insert(tx *sql.Tx, n openings.NewOpening) (openings.Opening, error) {
	o, err := scanOpening(tx.QueryRow(`
		INSERT INTO openings (user_id, case_id, reward_id, reward_name, reward_category, reward_value, status, finalized_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $7::text = 'held' THEN NULL ELSE now() END)
		RETURNING `+openingColumns,
		n.UserID, n.CaseID, n.RewardID, n.RewardName, n.RewardCategory, n.RewardValue, string(n.Status)))
	if err != nil {
		return openings.Opening{}, fmt.Errorf("insert opening: %w", err)
	}

	return o, nil
}
