package commissions

import (
	"context"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
)

func (r *commissionsRepo) ListByBeneficiary(ctx context.Context, beneficiaryID int64, limit int) ([]commissions.Commission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+commissionColumns+`
		FROM referral_commissions
		WHERE beneficiary_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, beneficiaryID, limit)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	defer rows.Close()

	var out []commissions.Commission

	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commission: %w", err)
		}

		out = append(out, c)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate commissions: %w", err)
	}

	return out, nil
}

func (r *commissionsRepo) Totals(ctx context.Context, beneficiaryID int64) (int64, int64, error) {
	var earned, unclaimed int64

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)::bigint,
		       COALESCE(SUM(amount) FILTER (WHERE NOT claimed), 0)::bigint
		FROM referral_commissions
		WHERE beneficiary_id = $1
	`, beneficiaryID).Scan(&earned, &unclaimed)
	if err != nil {
		return 0, 0, fmt.Errorf("sum commissions: %w", err)
	}

	return earned, unclaimed, nil
}
