package api

import (
	"net/http"
	"strings"

	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
	"github.com/mihailawp-gif/tgqwen/internal/services/lootbox"
)

// --- Handlers ---

// InitUserHandler handles POST /users
func (h *HandlerProvider) InitUserHandler(w http.ResponseWriter, r *http.Request) {
	var req initUserRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.ExternalID <= 0 {
		h.writeError(w, http.StatusBadRequest, "externalId must be positive")
		return
	}

	u, err := h.svc.InitUser(r.Context(), req.ExternalID, req.ReferrerCode)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toUser(u))
}

// ListCasesHandler handles GET /cases
func (h *HandlerProvider) ListCasesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCases(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]caseResponse, 0, len(list))
	for _, c := range list {
		out = append(out, caseResponse(c))
	}

	h.writeJSON(w, http.StatusOK, out)
}

// PreviewCaseHandler handles GET /cases/{caseId}/preview
func (h *HandlerProvider) PreviewCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID, err := parseIDParam(r, "caseId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.svc.PreviewPool(r.Context(), caseID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, entries)
}

// RecentOpeningsHandler handles GET /openings/recent
func (h *HandlerProvider) RecentOpeningsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.svc.RecentOpenings(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toOpenings(list))
}

// OpenCaseHandler handles POST /users/{userId}/openings
func (h *HandlerProvider) OpenCaseHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req openCaseRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.CaseID <= 0 {
		h.writeError(w, http.StatusBadRequest, "caseId must be positive")
		return
	}

	res, err := h.svc.OpenCase(r.Context(), lootbox.OpenRequest{
		UserID:     userID,
		CaseID:     req.CaseID,
		RequestKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, openCaseResponse{
		Opening:      toOpening(res.Opening),
		AutoCredited: res.AutoCredited,
		Balance:      res.Balance,
	})
}

// InventoryHandler handles GET /users/{userId}/inventory
func (h *HandlerProvider) InventoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.svc.ListHeldInventory(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toOpenings(list))
}

// SellOpeningHandler handles POST /users/{userId}/openings/{openingId}/sell
func (h *HandlerProvider) SellOpeningHandler(w http.ResponseWriter, r *http.Request) {
	userID, openingID, ok := h.userAndOpening(w, r)
	if !ok {
		return
	}

	res, err := h.svc.SellOpening(r.Context(), userID, openingID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toCredit(res))
}

// WithdrawOpeningHandler handles POST /users/{userId}/openings/{openingId}/withdraw
func (h *HandlerProvider) WithdrawOpeningHandler(w http.ResponseWriter, r *http.Request) {
	userID, openingID, ok := h.userAndOpening(w, r)
	if !ok {
		return
	}

	err := h.svc.WithdrawOpening(r.Context(), userID, openingID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "withdrawn"})
}

func (h *HandlerProvider) userAndOpening(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}

	openingID, err := parseIDParam(r, "openingId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}

	return userID, openingID, true
}

// ProfileHandler handles GET /users/{userId}/profile
func (h *HandlerProvider) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, profileResponse{
		UserID:            p.UserID,
		ExternalID:        p.ExternalID,
		Balance:           p.Balance,
		ReferralCode:      p.ReferralCode,
		OpeningsCount:     p.OpeningsCount,
		ReferralsCount:    p.ReferralsCount,
		ReferralEarned:    p.ReferralEarned,
		ReferralUnclaimed: p.ReferralUnclaimed,
		FreeCase:          toFreeCase(p.FreeCase),
		CreatedAt:         p.CreatedAt,
	})
}

// FreeCaseHandler handles GET /users/{userId}/free-case
func (h *HandlerProvider) FreeCaseHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.svc.FreeCaseStatus(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toFreeCase(st))
}

// ReferralCommissionsHandler handles GET /users/{userId}/referral-commissions
func (h *HandlerProvider) ReferralCommissionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.svc.ListReferralCommissions(r.Context(), userID, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]commissionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, commissionResponse{
			ID:           c.ID,
			SourceUserID: c.SourceUserID,
			Amount:       c.Amount,
			Trigger:      c.Trigger,
			Claimed:      c.Claimed,
			CreatedAt:    c.CreatedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, out)
}

// WithdrawCommissionsHandler handles POST /users/{userId}/referral-commissions/withdraw
func (h *HandlerProvider) WithdrawCommissionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.WithdrawReferralCommissions(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toCredit(res))
}

// --- Admin handlers ---

// DepositHandler handles POST /admin/users/{userId}/deposits
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req depositRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.PaymentRef) == "" {
		h.writeError(w, http.StatusBadRequest, "paymentRef required")
		return
	}

	res, err := h.svc.CompleteDeposit(r.Context(), userID, req.Amount, req.PaymentRef)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toCredit(res))
}

// ResetFreeCaseHandler handles POST /admin/users/{userId}/free-case/reset
func (h *HandlerProvider) ResetFreeCaseHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.svc.ResetFreeCase(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReplacePoolHandler handles PUT /admin/cases/{caseId}/pool
func (h *HandlerProvider) ReplacePoolHandler(w http.ResponseWriter, r *http.Request) {
	caseID, err := parseIDParam(r, "caseId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req replacePoolRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries := make([]cases.PoolWeight, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, cases.PoolWeight(e))
	}

	version, err := h.svc.ReplacePool(r.Context(), caseID, entries)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]int64{"poolVersion": version})
}
