package deposits

import (
	"database/sql"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/deposits"
)

var _ deposits.Deposits = (*depositsRepo)(nil)

type depositsRepo struct{ db *sql.DB }

func New(db *sql.DB) *depositsRepo {
	return &depositsRepo{db: db}
}

func (r *depositsRepo) Insert(tx *sql.Tx, userID, amount int64, paymentRef string) (deposits.Deposit, error) {
	d := deposits.Deposit{UserID: userID, Amount: amount, PaymentRef: paymentRef}

	err := tx.QueryRow(`
		INSERT INTO deposits (user_id, amount, payment_ref)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, userID, amount, paymentRef).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if pgutils.IsUniqueViolation(err, "deposits_payment_ref_key") {
			return deposits.Deposit{}, deposits.ErrDuplicateDeposit
		}

		return deposits.Deposit{}, fmt.Errorf("insert deposit: %w", err)
	}

	return d, nil
}
