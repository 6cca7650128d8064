package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
	"github.com/mihailawp-gif/tgqwen/internal/repos/deposits"
	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
	"github.com/mihailawp-gif/tgqwen/internal/repos/requests"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
	"github.com/mihailawp-gif/tgqwen/internal/rewards"
	"github.com/mihailawp-gif/tgqwen/internal/services/cooldown"
	"github.com/mihailawp-gif/tgqwen/internal/services/ledger"
	"github.com/mihailawp-gif/tgqwen/internal/services/lootbox"
)

const maxBodyBytes = 1 << 20

// HandlerProvider wraps a Service and exposes HTTP handlers.
type HandlerProvider struct {
	svc Service
	log *slog.Logger
}

// NewHandler returns a new Handler provider.
func NewHandler(svc Service, log *slog.Logger) *HandlerProvider {
	return &HandlerProvider{svc: svc, log: log}
}

// --- Helpers ---

func (h *HandlerProvider) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.log.Error("failed to encode JSON response", "error", err)
	}
}

func (h *HandlerProvider) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps a service error onto a status code. Anything
// unknown is logged and reported as 500 without details.
func (h *HandlerProvider) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var active *cooldown.ActiveError

	switch {
	case errors.As(err, &active):
		w.Header().Set("Retry-After", strconv.FormatInt(active.RemainingSeconds(), 10))
		h.writeJSON(w, http.StatusTooManyRequests, cooldownResponse{
			Error:            "free case on cooldown",
			RemainingSeconds: active.RemainingSeconds(),
			AvailableAt:      active.Until,
		})
	case errors.Is(err, users.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, cases.ErrCaseNotFound):
		h.writeError(w, http.StatusNotFound, "case not found")
	case errors.Is(err, openings.ErrOpeningNotFound):
		h.writeError(w, http.StatusNotFound, "opening not found")
	case errors.Is(err, users.ErrInsufficientBalance):
		h.writeError(w, http.StatusConflict, "insufficient balance")
	case errors.Is(err, openings.ErrAlreadyFinalized):
		h.writeError(w, http.StatusConflict, "opening already finalized")
	case errors.Is(err, requests.ErrDuplicateRequest):
		h.writeError(w, http.StatusConflict, "duplicate request")
	case errors.Is(err, deposits.ErrDuplicateDeposit):
		h.writeError(w, http.StatusConflict, "duplicate deposit")
	case errors.Is(err, lootbox.ErrInvalidAmount), errors.Is(err, ledger.ErrNegativeAmount):
		h.writeError(w, http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, rewards.ErrInvalidPool):
		if r.Method == http.MethodPut {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		h.writeError(w, http.StatusServiceUnavailable, "case is temporarily unavailable")
	default:
		h.log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}

		return errors.New("invalid JSON")
	}

	return nil
}

// parseIDParam reads a positive integer chi URL parameter such as
// {userId} in /users/{userId}/profile.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}

	return id, nil
}

// parseLimit reads ?limit=; zero means the service default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid limit")
	}

	return n, nil
}
