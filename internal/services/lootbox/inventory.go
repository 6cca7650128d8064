package lootbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
)

// ListHeldInventory returns the user's held items, newest first.
func (s *Service) ListHeldInventory(ctx context.Context, userID int64) ([]openings.Opening, error) {
	_, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	list, err := s.openings.ListHeld(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	return list, nil
}

// SellOpening converts a held item into its recorded value.
func (s *Service) SellOpening(ctx context.Context, userID, openingID int64) (CreditResult, error) {
	var res CreditResult

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		o, err := s.finalize(tx, userID, openingID, openings.StatusSold)
		if err != nil {
			return err
		}

		balance, err := s.ledger.Credit(tx, userID, o.RewardValue)
		if err != nil {
			return fmt.Errorf("credit sale: %w", err)
		}

		res = CreditResult{Amount: o.RewardValue, Balance: balance}

		return nil
	})
	if err != nil {
		return CreditResult{}, fmt.Errorf("sell opening %d: %w", openingID, err)
	}

	s.log.Info("opening sold", "user_id", userID, "opening_id", openingID, "amount", res.Amount)

	return res, nil
}

// WithdrawOpening marks a held item as claimed and queues it for delivery.
func (s *Service) WithdrawOpening(ctx context.Context, userID, openingID int64) error {
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		o, err := s.finalize(tx, userID, openingID, openings.StatusWithdrawn)
		if err != nil {
			return err
		}

		_, err = s.withdrawals.Enqueue(tx, o.ID, userID)
		if err != nil {
			return fmt.Errorf("queue withdrawal: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("withdraw opening %d: %w", openingID, err)
	}

	s.log.Info("opening withdrawn", "user_id", userID, "opening_id", openingID)

	return nil
}

// finalize locks the user and the opening, in that order, and moves a held
// opening to status.
func (s *Service) finalize(tx *sql.Tx, userID, openingID int64, status openings.Status) (openings.Opening, error) {
	_, err := s.users.LockForUpdate(tx, userID)
	if err != nil {
		return openings.Opening{}, fmt.Errorf("lock user: %w", err)
	}

	o, err := s.openings.LockForUser(tx, userID, openingID)
	if err != nil {
		return openings.Opening{}, fmt.Errorf("lock opening: %w", err)
	}

	if o.Status.Terminal() {
		return openings.Opening{}, fmt.Errorf("opening is %s: %w", o.Status, openings.ErrAlreadyFinalized)
	}

	o, err = s.openings.Finalize(tx, o.ID, status)
	if err != nil {
		return openings.Opening{}, fmt.Errorf("finalize opening: %w", err)
	}

	return o, nil
}

// RecentOpenings is the global history, newest first. A non-positive limit
// means the default page size.
func (s *Service) RecentOpenings(ctx context.Context, limit int) ([]openings.Opening, error) {
	list, err := s.openings.ListRecent(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("recent openings: %w", err)
	}

	return list, nil
}
