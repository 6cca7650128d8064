package commissions

import (
	"database/sql"
	"fmt"
)

func (r *commissionsRepo) ClaimAll(tx *sql.Tx, beneficiaryID int64) (int64, error) {
	var sum int64

	err := tx.QueryRow(`
		WITH claimed AS (
			UPDATE referral_commissions
			SET claimed = TRUE, claimed_at = now()
			WHERE beneficiary_id = $1 AND NOT claimed
			RETURNING amount
		)
		SELECT COALESCE(SUM(amount), 0)::bigint FROM claimed
	`, beneficiaryID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("claim commissions: %w", err)
	}

	return sum, nil
}
