package lootbox

import (
	"errors"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
	"github.com/mihailawp-gif/tgqwen/internal/rewards"
	"github.com/mihailawp-gif/tgqwen/internal/services/cooldown"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// OpenRequest asks to open one case. RequestKey is optional; when set, a
// replay of the same key fails with requests.ErrDuplicateRequest.
type OpenRequest struct {
	UserID     int64
	CaseID     int64
	RequestKey string
}

// OpeningResult is what a successful open produced. Balance is the user's
// balance after the whole operation.
type OpeningResult struct {
	Opening      openings.Opening
	Reward       rewards.Reward
	AutoCredited bool
	Balance      int64
}

// CreditResult reports an amount added to a balance and the balance after.
type CreditResult struct {
	Amount  int64
	Balance int64
}

type CaseSummary struct {
	ID          int64
	Name        string
	Description string
	Price       int64
	IsFree      bool
	RewardCount int
}

type Profile struct {
	UserID            int64
	ExternalID        int64
	Balance           int64
	ReferralCode      string
	OpeningsCount     int64
	ReferralsCount    int64
	ReferralEarned    int64
	ReferralUnclaimed int64
	FreeCase          cooldown.Status
	CreatedAt         time.Time
}
