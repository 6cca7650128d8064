package openings

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
)

func (r *openingsRepo) LockForUser(tx *sql.Tx, userID, openingID int64) (openings.Opening, error) {
	o, err := scanOpening(tx.QueryRow(`
		SELECT `+openingColumns+`
		FROM openings
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, openingID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return openings.Opening{}, openings.ErrOpeningNotFound
		}

		return openings.Opening{}, fmt.Errorf("lock opening: %w", err)
	}

	return o, nil
}
