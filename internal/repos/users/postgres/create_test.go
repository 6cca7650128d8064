package users

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgtestutil"
	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

func TestUsers_Create(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := t.Context()

	referrerID := pgtestutil.SeedUser(t, db, 1, 0, 0)

	var first users.User

	err := pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
		u, created, err := repo.Create(tx, users.NewUser{
			ExternalID:   500,
			Balance:      25,
			ReferrerID:   &referrerID,
			ReferralCode: "ABCD1234",
		})
		if err != nil {
			return err
		}
		if !created {
			t.Errorf("first create must report created")
		}

		first = u

		return nil
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.Balance != 25 || first.ReferrerID == nil || *first.ReferrerID != referrerID {
		t.Fatalf("unexpected user: %+v", first)
	}

	err = pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
		u, created, err := repo.Create(tx, users.NewUser{ExternalID: 500, ReferralCode: "ZZZZ0000"})
		if err != nil {
			return err
		}
		if created || u.ID != first.ID || u.ReferralCode != "ABCD1234" {
			t.Errorf("second create must return the existing row, got %+v created=%v", u, created)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("create again: %v", err)
	}

	err = pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
		_, _, err := repo.Create(tx, users.NewUser{ExternalID: 501, ReferralCode: "ABCD1234"})
		return err
	})
	if !errors.Is(err, users.ErrReferralCodeTaken) {
		t.Fatalf("want ErrReferralCodeTaken, got %v", err)
	}

	byCode, err := repo.GetByReferralCode(ctx, "ABCD1234")
	if err != nil || byCode.ID != first.ID {
		t.Fatalf("get by code: %+v %v", byCode, err)
	}

	byExt, err := repo.GetByExternalID(ctx, 500)
	if err != nil || byExt.ID != first.ID {
		t.Fatalf("get by external id: %+v %v", byExt, err)
	}

	_, err = repo.Get(ctx, 123_456)
	if !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}

	n, err := repo.CountReferrals(ctx, referrerID)
	if err != nil || n != 1 {
		t.Fatalf("count referrals: %d %v", n, err)
	}
}

func TestUsers_SetFreeCaseOpenedAt(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := t.Context()

	userID := pgtestutil.SeedUser(t, db, 9, 0, 0)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	err := pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
		return repo.SetFreeCaseOpenedAt(tx, userID, &at)
	})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	u, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.FreeCaseLastOpenedAt == nil || !u.FreeCaseLastOpenedAt.Equal(at) {
		t.Fatalf("timestamp not stored: %+v", u.FreeCaseLastOpenedAt)
	}

	err = pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
		return repo.SetFreeCaseOpenedAt(tx, userID, nil)
	})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}

	u, err = repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.FreeCaseLastOpenedAt != nil {
		t.Fatalf("timestamp not cleared: %v", u.FreeCaseLastOpenedAt)
	}

	err = pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
		return repo.SetFreeCaseOpenedAt(tx, 999_999, &at)
	})
	if !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
