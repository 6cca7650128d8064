package lootbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
	"github.com/mihailawp-gif/tgqwen/internal/rewards"
	"github.com/mihailawp-gif/tgqwen/internal/services/referral"
)

// OpenCase opens one case for a user. Within one transaction it:
//
// 1) Locks the user and reads the case, blocking pool replacement.
// 2) Records the request key, if any.
// 3) Consumes the free allowance or debits the price.
// 4) Draws from the case's pool.
// 5) Credits an auto-credit reward or stores a claimable one as held.
// 6) Records the referral commission of a paid open.
//
// Any failure rolls back every step.
func (s *Service) OpenCase(ctx context.Context, req OpenRequest) (OpeningResult, error) {
	var res OpeningResult

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := s.users.LockForUpdate(tx, req.UserID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		c, err := s.cases.GetForShare(tx, req.CaseID)
		if err != nil {
			return fmt.Errorf("get case: %w", err)
		}

		if req.RequestKey != "" {
			err = s.requests.Insert(tx, req.RequestKey, u.ID)
			if err != nil {
				return fmt.Errorf("record request: %w", err)
			}
		}

		balance := u.Balance

		if c.IsFree {
			err = s.cooldown.CheckAndConsume(tx, u.ID, s.clock.Now())
			if err != nil {
				return fmt.Errorf("free case: %w", err)
			}
		} else {
			balance, err = s.ledger.Debit(tx, u.ID, c.Price)
			if err != nil {
				return fmt.Errorf("pay for case: %w", err)
			}
		}

		pool, err := s.poolFor(c, func() (int64, []cases.PoolEntry, error) {
			return s.cases.PoolEntries(tx, c.ID)
		})
		if err != nil {
			return fmt.Errorf("load pool: %w", err)
		}

		var reward rewards.Reward
		if c.IsFree {
			reward = rewards.DrawFree(pool, s.src)
		} else {
			reward = rewards.Draw(pool, s.src)
		}

		n := openings.NewOpening{
			UserID:         u.ID,
			CaseID:         c.ID,
			RewardID:       reward.ID,
			RewardName:     reward.Name,
			RewardCategory: string(reward.Category),
		}

		switch p := reward.Payout.(type) {
		case rewards.AutoCredit:
			n.RewardValue = rewards.Realize(p, s.src)
			n.Status = openings.StatusCredited

			balance, err = s.ledger.Credit(tx, u.ID, n.RewardValue)
			if err != nil {
				return fmt.Errorf("credit reward: %w", err)
			}

			res.AutoCredited = true
		case rewards.Claimable:
			n.RewardValue = p.Value
			n.Status = openings.StatusHeld
		default:
			return fmt.Errorf("reward %d: unknown payout %T", reward.ID, p)
		}

		o, err := s.openings.Insert(tx, n)
		if err != nil {
			return fmt.Errorf("store opening: %w", err)
		}

		if !c.IsFree {
			_, _, err = s.referral.Record(tx, u, commissions.TriggerCasePurchase, c.Price, referral.EventRef("opening", o.ID))
			if err != nil {
				return fmt.Errorf("referral commission: %w", err)
			}
		}

		res.Opening = o
		res.Reward = reward
		res.Balance = balance

		return nil
	})
	if err != nil {
		return OpeningResult{}, fmt.Errorf("open case: %w", err)
	}

	s.log.Info("case opened",
		"user_id", req.UserID,
		"case_id", req.CaseID,
		"opening_id", res.Opening.ID,
		"reward_id", res.Reward.ID,
		"value", res.Opening.RewardValue,
		"auto_credited", res.AutoCredited,
	)

	return res, nil
}
