package lootbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
	"github.com/mihailawp-gif/tgqwen/internal/services/referral"
)

// CompleteDeposit credits a confirmed payment and pays the deposit
// commission to the user's referrer. paymentRef makes it idempotent.
func (s *Service) CompleteDeposit(ctx context.Context, userID, amount int64, paymentRef string) (CreditResult, error) {
	if amount <= 0 {
		return CreditResult{}, fmt.Errorf("complete deposit: %w", ErrInvalidAmount)
	}

	var res CreditResult

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := s.users.LockForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		d, err := s.deposits.Insert(tx, userID, amount, paymentRef)
		if err != nil {
			return fmt.Errorf("record deposit: %w", err)
		}

		balance, err := s.ledger.Credit(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("credit deposit: %w", err)
		}

		_, _, err = s.referral.Record(tx, u, commissions.TriggerDeposit, amount, referral.EventRef("deposit", d.ID))
		if err != nil {
			return fmt.Errorf("referral commission: %w", err)
		}

		res = CreditResult{Amount: amount, Balance: balance}

		return nil
	})
	if err != nil {
		return CreditResult{}, fmt.Errorf("complete deposit %q: %w", paymentRef, err)
	}

	s.log.Info("deposit completed", "user_id", userID, "amount", amount, "payment_ref", paymentRef)

	return res, nil
}

// WithdrawReferralCommissions moves the user's unclaimed commissions to the
// balance. Nothing to claim is not an error; Amount is then zero.
func (s *Service) WithdrawReferralCommissions(ctx context.Context, userID int64) (CreditResult, error) {
	var res CreditResult

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		credited, balance, err := s.referral.Withdraw(tx, userID)
		if err != nil {
			return err
		}

		res = CreditResult{Amount: credited, Balance: balance}

		return nil
	})
	if err != nil {
		return CreditResult{}, fmt.Errorf("withdraw referral commissions: %w", err)
	}

	if res.Amount > 0 {
		s.log.Info("referral commissions withdrawn", "user_id", userID, "amount", res.Amount)
	}

	return res, nil
}

func (s *Service) ListReferralCommissions(ctx context.Context, userID int64, limit int) ([]commissions.Commission, error) {
	_, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	list, err := s.commissions.ListByBeneficiary(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list referral commissions: %w", err)
	}

	return list, nil
}
