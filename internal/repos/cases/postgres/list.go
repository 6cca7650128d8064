package cases

import (
	"context"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
)

func (r *casesRepo) List(ctx context.Context) ([]cases.Case, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+caseColumns+`
		FROM cases
		WHERE is_active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var out []cases.Case

	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}

		out = append(out, c)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}

	return out, nil
}
