package lootbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
	"github.com/mihailawp-gif/tgqwen/internal/services/cooldown"
)

const referralCodeAttempts = 3

// InitUser returns the user behind externalID, creating it on first sight.
// referrerCode is only honoured at creation; an unknown code is ignored.
func (s *Service) InitUser(ctx context.Context, externalID int64, referrerCode string) (users.User, error) {
	u, err := s.users.GetByExternalID(ctx, externalID)
	if err == nil {
		return u, nil
	}

	if !errors.Is(err, users.ErrUserNotFound) {
		return users.User{}, fmt.Errorf("get user: %w", err)
	}

	var referrerID *int64

	code := strings.ToUpper(strings.TrimSpace(referrerCode))
	if code != "" {
		ref, err := s.users.GetByReferralCode(ctx, code)
		switch {
		case err == nil:
			referrerID = &ref.ID
		case errors.Is(err, users.ErrUserNotFound):
			s.log.Info("unknown referral code ignored", "external_id", externalID, "code", code)
		default:
			return users.User{}, fmt.Errorf("resolve referrer: %w", err)
		}
	}

	for range referralCodeAttempts {
		var created bool

		err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			var err error

			u, created, err = s.users.Create(tx, users.NewUser{
				ExternalID:   externalID,
				Balance:      s.econ.InitialBalance,
				ReferrerID:   referrerID,
				ReferralCode: newReferralCode(),
			})

			return err
		})
		if errors.Is(err, users.ErrReferralCodeTaken) {
			continue
		}

		if err != nil {
			return users.User{}, fmt.Errorf("create user: %w", err)
		}

		if created {
			s.log.Info("user created", "user_id", u.ID, "external_id", externalID, "referred", referrerID != nil)
		}

		return u, nil
	}

	return users.User{}, fmt.Errorf("create user: %w", err)
}

func newReferralCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// GetProfile gathers the profile figures concurrently; they are independent
// reads and need not come from one snapshot.
func (s *Service) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	var p Profile

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("get user: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.openings.CountByUser(gctx, userID)
		p.OpeningsCount = n

		return err
	})

	g.Go(func() error {
		n, err := s.users.CountReferrals(gctx, userID)
		p.ReferralsCount = n

		return err
	})

	g.Go(func() error {
		earned, unclaimed, err := s.commissions.Totals(gctx, userID)
		p.ReferralEarned, p.ReferralUnclaimed = earned, unclaimed

		return err
	})

	err = g.Wait()
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}

	p.UserID = u.ID
	p.ExternalID = u.ExternalID
	p.Balance = u.Balance
	p.ReferralCode = u.ReferralCode
	p.CreatedAt = u.CreatedAt
	p.FreeCase = s.cooldown.Status(u, s.clock.Now())

	return p, nil
}

func (s *Service) FreeCaseStatus(ctx context.Context, userID int64) (cooldown.Status, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return cooldown.Status{}, fmt.Errorf("get user: %w", err)
	}

	return s.cooldown.Status(u, s.clock.Now()), nil
}

// ResetFreeCase makes the free case available again right away.
func (s *Service) ResetFreeCase(ctx context.Context, userID int64) error {
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.cooldown.Reset(tx, userID)
	})
	if err != nil {
		return fmt.Errorf("reset free case: %w", err)
	}

	s.log.Info("free case reset", "user_id", userID)

	return nil
}
