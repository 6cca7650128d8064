package commissions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrDuplicateCommission means the triggering event already paid out.
var ErrDuplicateCommission = errors.New("duplicate referral commission")

type Trigger string

const (
	TriggerDeposit      Trigger = "deposit"
	TriggerCasePurchase Trigger = "case_purchase"
)

type Commission struct {
	ID            int64
	BeneficiaryID int64
	SourceUserID  int64
	Amount        int64
	Trigger       Trigger
	EventRef      string
	Claimed       bool
	CreatedAt     time.Time
	ClaimedAt     *time.Time
}

type NewCommission struct {
	BeneficiaryID int64
	SourceUserID  int64
	Amount        int64
	Trigger       Trigger
	EventRef      string
	Claimed       bool
}

type Commissions interface {
	Insert(tx *sql.Tx, c NewCommission) (Commission, error)
	// ClaimAll marks every unclaimed commission of the beneficiary as claimed
	// and returns their sum.
	ClaimAll(tx *sql.Tx, beneficiaryID int64) (int64, error)
	ListByBeneficiary(ctx context.Context, beneficiaryID int64, limit int) ([]Commission, error)
	// Totals returns the lifetime and the still unclaimed sums.
	Totals(ctx context.Context, beneficiaryID int64) (earned, unclaimed int64, err error)
}
