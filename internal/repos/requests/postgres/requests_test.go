package requests

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgtestutil"
	"github.com/mihailawp-gif/tgqwen/internal/repos/requests"
)

func TestRequests_Insert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		seed      func(t *testing.T, db *sql.DB) int64
		key       string
		wantErr   error
		wantFKErr bool
	}{
		{
			name: "ok_insert",
			seed: func(t *testing.T, db *sql.DB) int64 {
				return pgtestutil.SeedUser(t, db, 1, 100, 0)
			},
			key: "req_123",
		},
		{
			name: "duplicate_request",
			seed: func(t *testing.T, db *sql.DB) int64 {
				id := pgtestutil.SeedUser(t, db, 2, 100, 0)

				_, err := db.Exec(`INSERT INTO processed_requests (request_key, user_id) VALUES ($1, $2)`, "req_dup", id)
				if err != nil {
					t.Fatalf("seed request: %v", err)
				}

				return id
			},
			key:     "req_dup",
			wantErr: requests.ErrDuplicateRequest,
		},
		{
			name:      "user_not_exist_fk_violation",
			seed:      func(*testing.T, *sql.DB) int64 { return 999 },
			key:       "req_fk",
			wantFKErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			repo := New(db)

			userID := tt.seed(t, db)

			tx, err := db.BeginTx(context.Background(), nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer func() { _ = tx.Rollback() }()

			err = repo.Insert(tx, tt.key, userID)

			switch {
			case tt.wantFKErr:
				var pgErr *pgconn.PgError
				if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
					t.Fatalf("expected foreign key violation, got %v", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("unexpected error: got %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}
