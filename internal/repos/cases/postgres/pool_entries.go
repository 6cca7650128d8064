package cases

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
	"github.com/mihailawp-gif/tgqwen/internal/rewards"
)

func (r *casesRepo) PoolEntries(tx *sql.Tx, caseID int64) (int64, []cases.PoolEntry, error) {
	return poolEntries(context.Background(), tx, caseID)
}

func (r *casesRepo) PoolEntriesByCase(ctx context.Context, caseID int64) (int64, []cases.PoolEntry, error) {
	return poolEntries(ctx, r.db, caseID)
}

// poolEntries reads the version and the rows with a single statement so both
// come from the same snapshot. A case without rows yields its version and an
// empty slice.
func poolEntries(ctx context.Context, q pgutils.Querier, caseID int64) (int64, []cases.PoolEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT c.pool_version,
		       r.id, r.name, r.category, r.value, r.auto_credit, COALESCE(r.value_table, ''),
		       cr.weight
		FROM cases c
		LEFT JOIN case_rewards cr ON cr.case_id = c.id
		LEFT JOIN rewards r ON r.id = cr.reward_id
		WHERE c.id = $1
		ORDER BY cr.position
	`, caseID)
	if err != nil {
		return 0, nil, fmt.Errorf("query pool: %w", err)
	}
	defer rows.Close()

	var (
		version int64
		found   bool
		out     []cases.PoolEntry
	)

	for rows.Next() {
		var (
			id, value      sql.NullInt64
			name, category sql.NullString
			table          sql.NullString
			autoCredit     sql.NullBool
			weight         sql.NullFloat64
		)

		err = rows.Scan(&version, &id, &name, &category, &value, &autoCredit, &table, &weight)
		if err != nil {
			return 0, nil, fmt.Errorf("scan pool entry: %w", err)
		}

		found = true

		if !id.Valid {
			continue
		}

		out = append(out, cases.PoolEntry{
			Reward: rewards.Definition{
				ID:         id.Int64,
				Name:       name.String,
				Category:   category.String,
				Value:      value.Int64,
				AutoCredit: autoCredit.Bool,
				ValueTable: table.String,
			},
			Weight: weight.Float64,
		})
	}

	err = rows.Err()
	if err != nil {
		return 0, nil, fmt.Errorf("iterate pool: %w", err)
	}

	if !found {
		return 0, nil, cases.ErrCaseNotFound
	}

	return version, out, nil
}
