package commissions

import (
	"database/sql"

	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
)

var _ commissions.Commissions = (*commissionsRepo)(nil)

const commissionColumns = `id, beneficiary_id, source_user_id, amount, trigger, event_ref, claimed, created_at, claimed_at`

type commissionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *commissionsRepo {
	return &commissionsRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommission(row rowScanner) (commissions.Commission, error) {
	var (
		c         commissions.Commission
		trigger   string
		claimedAt sql.NullTime
	)

	err := row.Scan(&c.ID, &c.BeneficiaryID, &c.SourceUserID, &c.Amount, &trigger, &c.EventRef,
		&c.Claimed, &c.CreatedAt, &claimedAt)
	if err != nil {
		return commissions.Commission{}, err
	}

	c.Trigger = commissions.Trigger(trigger)

	if claimedAt.Valid {
		at := claimedAt.Time
		c.ClaimedAt = &at
	}

	return c, nil
}
