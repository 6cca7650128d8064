package cases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
)

func (r *casesRepo) Get(ctx context.Context, caseID int64) (cases.Case, error) {
	c, err := scanCase(r.db.QueryRowContext(ctx, `
		SELECT `+caseColumns+`
		FROM cases
		WHERE id = $1 AND is_active
	`, caseID))

	return c, mapCaseErr(err, "get case")
}

func (r *casesRepo) GetForShare(tx *sql.Tx, caseID int64) (cases.Case, error) {
	c, err := scanCase(tx.QueryRow(`
		SELECT `+caseColumns+`
		FROM cases
		WHERE id = $1 AND is_active
		FOR SHARE
	`, caseID))

	return c, mapCaseErr(err, "get case for share")
}

func (r *casesRepo) LockForUpdate(tx *sql.Tx, caseID int64) (cases.Case, error) {
	c, err := scanCase(tx.QueryRow(`
		SELECT `+caseColumns+`
		FROM cases
		WHERE id = $1
		FOR UPDATE
	`, caseID))

	return c, mapCaseErr(err, "lock case")
}

func mapCaseErr(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return cases.ErrCaseNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
