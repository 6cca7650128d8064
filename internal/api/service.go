package api

import (
	"context"

	"github.com/mihailawp-gif/tgqwen/internal/preview"
	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
	"github.com/mihailawp-gif/tgqwen/internal/services/cooldown"
	"github.com/mihailawp-gif/tgqwen/internal/services/lootbox"
)

// Service is the part of lootbox.Service the HTTP layer calls.
type Service interface {
	InitUser(ctx context.Context, externalID int64, referrerCode string) (users.User, error)
	ListCases(ctx context.Context) ([]lootbox.CaseSummary, error)
	PreviewPool(ctx context.Context, caseID int64) ([]preview.Entry, error)
	OpenCase(ctx context.Context, req lootbox.OpenRequest) (lootbox.OpeningResult, error)
	ListHeldInventory(ctx context.Context, userID int64) ([]openings.Opening, error)
	SellOpening(ctx context.Context, userID, openingID int64) (lootbox.CreditResult, error)
	WithdrawOpening(ctx context.Context, userID, openingID int64) error
	GetProfile(ctx context.Context, userID int64) (lootbox.Profile, error)
	FreeCaseStatus(ctx context.Context, userID int64) (cooldown.Status, error)
	WithdrawReferralCommissions(ctx context.Context, userID int64) (lootbox.CreditResult, error)
	ListReferralCommissions(ctx context.Context, userID int64, limit int) ([]commissions.Commission, error)
	RecentOpenings(ctx context.Context, limit int) ([]openings.Opening, error)
	CompleteDeposit(ctx context.Context, userID, amount int64, paymentRef string) (lootbox.CreditResult, error)
	ResetFreeCase(ctx context.Context, userID int64) error
	ReplacePool(ctx context.Context, caseID int64, entries []cases.PoolWeight) (int64, error)
}

var _ Service = (*lootbox.Service)(nil)
