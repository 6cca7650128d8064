package commissions

import (
	"database/sql"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
)

func (r *commissionsRepo) Insert(tx *sql.Tx, n commissions.NewCommission) (commissions.Commission, error) {
	c, err := scanCommission(tx.QueryRow(`
		INSERT INTO referral_commissions (beneficiary_id, source_user_id, amount, trigger, event_ref, claimed, claimed_at)
		VALUES ($1, $2, $3, $4, $5, $6, CASE WHEN $6::boolean THEN now() END)
		RETURNING `+commissionColumns,
		n.BeneficiaryID, n.SourceUserID, n.Amount, string(n.Trigger), n.EventRef, n.Claimed))
	if err != nil {
		if pgutils.IsUniqueViolation(err, "referral_commissions_event_key") {
			return commissions.Commission{}, commissions.ErrDuplicateCommission
		}

		return commissions.Commission{}, fmt.Errorf("insert commission: %w", err)
	}

	return c, nil
}
