package api

import (
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
	"github.com/mihailawp-gif/tgqwen/internal/services/cooldown"
	"github.com/mihailawp-gif/tgqwen/internal/services/lootbox"
)

type errorResponse struct {
	Error string `json:"error"`
}

type cooldownResponse struct {
	Error            string    `json:"error"`
	RemainingSeconds int64     `json:"remainingSeconds"`
	AvailableAt      time.Time `json:"availableAt"`
}

type initUserRequest struct {
	ExternalID   int64  `json:"externalId"`
	ReferrerCode string `json:"referrerCode"`
}

type openCaseRequest struct {
	CaseID int64 `json:"caseId"`
}

type depositRequest struct {
	Amount     int64  `json:"amount"`
	PaymentRef string `json:"paymentRef"`
}

type poolEntryRequest struct {
	RewardID int64   `json:"rewardId"`
	Weight   float64 `json:"weight"`
}

type replacePoolRequest struct {
	Entries []poolEntryRequest `json:"entries"`
}

type userResponse struct {
	ID           int64     `json:"id"`
	ExternalID   int64     `json:"externalId"`
	Balance      int64     `json:"balance"`
	ReferralCode string    `json:"referralCode"`
	ReferrerID   *int64    `json:"referrerId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toUser(u users.User) userResponse {
	return userResponse{
		ID:           u.ID,
		ExternalID:   u.ExternalID,
		Balance:      u.Balance,
		ReferralCode: u.ReferralCode,
		ReferrerID:   u.ReferrerID,
		CreatedAt:    u.CreatedAt,
	}
}

type caseResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	IsFree      bool   `json:"isFree"`
	RewardCount int    `json:"rewardCount"`
}

type openingResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	CaseID      int64           `json:"caseId"`
	RewardID    int64           `json:"rewardId"`
	RewardName  string          `json:"rewardName"`
	Category    string          `json:"category"`
	Value       int64           `json:"value"`
	Status      openings.Status `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	FinalizedAt *time.Time      `json:"finalizedAt,omitempty"`
}

func toOpening(o openings.Opening) openingResponse {
	return openingResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		CaseID:      o.CaseID,
		RewardID:    o.RewardID,
		RewardName:  o.RewardName,
		Category:    o.RewardCategory,
		Value:       o.RewardValue,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		FinalizedAt: o.FinalizedAt,
	}
}

func toOpenings(list []openings.Opening) []openingResponse {
	out := make([]openingResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOpening(o))
	}

	return out
}

type openCaseResponse struct {
	Opening      openingResponse `json:"opening"`
	AutoCredited bool            `json:"autoCredited"`
	Balance      int64           `json:"balance"`
}

type creditResponse struct {
	Amount  int64 `json:"amount"`
	Balance int64 `json:"balance"`
}

func toCredit(c lootbox.CreditResult) creditResponse {
	return creditResponse{Amount: c.Amount, Balance: c.Balance}
}

type freeCaseResponse struct {
	Available        bool       `json:"available"`
	RemainingSeconds int64      `json:"remainingSeconds"`
	AvailableAt      *time.Time `json:"availableAt,omitempty"`
}

func toFreeCase(s cooldown.Status) freeCaseResponse {
	r := freeCaseResponse{Available: s.Available, RemainingSeconds: s.RemainingSeconds()}
	if !s.Available {
		until := s.Until
		r.AvailableAt = &until
	}

	return r
}

type profileResponse struct {
	UserID            int64            `json:"userId"`
	ExternalID        int64            `json:"externalId"`
	Balance           int64            `json:"balance"`
	ReferralCode      string           `json:"referralCode"`
	OpeningsCount     int64            `json:"openingsCount"`
	ReferralsCount    int64            `json:"referralsCount"`
	ReferralEarned    int64            `json:"referralEarned"`
	ReferralUnclaimed int64            `json:"referralUnclaimed"`
	FreeCase          freeCaseResponse `json:"freeCase"`
	CreatedAt         time.Time        `json:"createdAt"`
}

type commissionResponse struct {
	ID           int64               `json:"id"`
	SourceUserID int64               `json:"sourceUserId"`
	Amount       int64               `json:"amount"`
	Trigger      commissions.Trigger `json:"trigger"`
	Claimed      bool                `json:"claimed"`
	CreatedAt    time.Time           `json:"createdAt"`
}
