package requests

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mihailawp-gif/tgqwen/internal/repos/requests"
)

var _ requests.Requests = (*requestsRepo)(nil)

type requestsRepo struct{ db *sql.DB }

func New(db *sql.DB) *requestsRepo {
	return &requestsRepo{db: db}
}

// Insert records the key inside tx, so a rolled back operation frees it again.
func (r *requestsRepo) Insert(tx *sql.Tx, requestKey string, userID int64) error {
	_, err := tx.Exec(`
		INSERT INTO processed_requests (request_key, user_id)
		VALUES ($1, $2)
	`, requestKey, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return requests.ErrDuplicateRequest
			}
		}

		return fmt.Errorf("insert request key: %w", err)
	}

	return nil
}
