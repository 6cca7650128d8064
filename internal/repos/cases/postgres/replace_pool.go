package cases

import (
	"database/sql"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
)

func (r *casesRepo) ReplacePool(tx *sql.Tx, caseID int64, entries []cases.PoolWeight) (int64, error) {
	_, err := tx.Exec(`DELETE FROM case_rewards WHERE case_id = $1`, caseID)
	if err != nil {
		return 0, fmt.Errorf("delete pool: %w", err)
	}

	for i, e := range entries {
		_, err = tx.Exec(`
			INSERT INTO case_rewards (case_id, position, reward_id, weight)
			VALUES ($1, $2, $3, $4)
		`, caseID, i+1, e.RewardID, e.Weight)
		if err != nil {
			return 0, fmt.Errorf("insert pool entry %d: %w", i, err)
		}
	}

	var version int64

	err = tx.QueryRow(`
		UPDATE cases
		SET pool_version = pool_version + 1
		WHERE id = $1
		RETURNING pool_version
	`, caseID).Scan(&version)
	if err != nil {
		return 0, mapCaseErr(err, "bump pool version")
	}

	return version, nil
}
