package openings

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
)

// Finalize only touches a row that is still held, so a second transition of
// the same opening reports ErrAlreadyFinalized.
func (r *openingsRepo) Finalize(tx *sql.Tx, openingID int64, to openings.Status) (openings.Opening, error) {
	if !to.Terminal() {
		return openings.Opening{}, fmt.Errorf("finalize to %q: not a terminal status", to)
	}

	o, err := scanOpening(tx.QueryRow(`
		UPDATE openings
		SET status = $2, finalized_at = now()
		WHERE id = $1 AND status = 'held'
		RETURNING `+openingColumns,
		openingID, string(to)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return openings.Opening{}, openings.ErrAlreadyFinalized
		}

		return openings.Opening{}, fmt.Errorf("finalize opening: %w", err)
	}

	return o, nil
}
