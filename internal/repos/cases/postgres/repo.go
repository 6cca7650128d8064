package cases

import (
	"database/sql"

	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
)

var _ cases.Cases = (*casesRepo)(nil)

const caseColumns = `id, name, description, price, is_free, is_active, pool_version`

type casesRepo struct{ db *sql.DB }

func New(db *sql.DB) *casesRepo {
	return &casesRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (cases.Case, error) {
	var c cases.Case

	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.IsFree, &c.IsActive, &c.PoolVersion)
	if err != nil {
		return cases.Case{}, err
	}

	return c, nil
}
