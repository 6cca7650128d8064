package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const adminTokenHeader = "X-Admin-Token"

// NewRouter registers all API endpoints. Admin routes are disabled when
// adminToken is empty.
func NewRouter(svc Service, adminToken string, log *slog.Logger) http.Handler {
	h := NewHandler(svc, log)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/users", h.InitUserHandler)
	r.Get("/cases", h.ListCasesHandler)
	r.Get("/cases/{caseId}/preview", h.PreviewCaseHandler)
	r.Get("/openings/recent", h.RecentOpeningsHandler)

	r.Route("/users/{userId}", func(r chi.Router) {
		r.Post("/openings", h.OpenCaseHandler)
		r.Post("/openings/{openingId}/sell", h.SellOpeningHandler)
		r.Post("/openings/{openingId}/withdraw", h.WithdrawOpeningHandler)
		r.Get("/inventory", h.InventoryHandler)
		r.Get("/profile", h.ProfileHandler)
		r.Get("/free-case", h.FreeCaseHandler)
		r.Get("/referral-commissions", h.ReferralCommissionsHandler)
		r.Post("/referral-commissions/withdraw", h.WithdrawCommissionsHandler)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAdmin(h, adminToken))

		r.Post("/users/{userId}/deposits", h.DepositHandler)
		r.Post("/users/{userId}/free-case/reset", h.ResetFreeCaseHandler)
		r.Put("/cases/{caseId}/pool", h.ReplacePoolHandler)
	})

	return r
}

func requireAdmin(h *HandlerProvider, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				h.writeError(w, http.StatusForbidden, "admin API disabled")
				return
			}

			got := r.Header.Get(adminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				h.writeError(w, http.StatusUnauthorized, "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
