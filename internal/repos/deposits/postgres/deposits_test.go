package deposits

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgtestutil"
	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/deposits"
)

func TestDeposits_Insert(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	userID := pgtestutil.SeedUser(t, db, 1, 0, 0)

	insert := func(ref string, amount int64) (deposits.Deposit, error) {
		var d deposits.Deposit

		err := pgutils.WithTx(t.Context(), db, func(tx *sql.Tx) error {
			var err error
			d, err = repo.Insert(tx, userID, amount, ref)
			return err
		})

		return d, err
	}

	d, err := insert("pay_1", 100)
	if err != nil || d.ID == 0 || d.Amount != 100 {
		t.Fatalf("insert: %+v %v", d, err)
	}

	_, err = insert("pay_1", 100)
	if !errors.Is(err, deposits.ErrDuplicateDeposit) {
		t.Fatalf("want ErrDuplicateDeposit, got %v", err)
	}

	_, err = insert("pay_2", 0)
	if err == nil || errors.Is(err, deposits.ErrDuplicateDeposit) {
		t.Fatalf("zero amount must violate the schema, got %v", err)
	}
}
