package users

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgtestutil"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
)

func TestUsers_LockForUpdate_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		seed        bool
		balance     int64
		wantBalance int64
		wantErr     error
	}{
		{name: "user_exists_zero_balance", seed: true, balance: 0, wantBalance: 0},
		{name: "user_exists_positive_balance", seed: true, balance: 12345, wantBalance: 12345},
		{name: "user_not_found", seed: false, wantErr: users.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			userID := int64(999)
			if tt.seed {
				userID = pgtestutil.SeedUser(t, db, 10, tt.balance, 0)
			}

			repo := New(db)

			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer func() { _ = tx.Rollback() }()

			u, err := repo.LockForUpdate(tx, userID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Balance != tt.wantBalance || u.ExternalID != 10 || u.ReferralCode != "REF10" {
				t.Fatalf("unexpected user: %+v", u)
			}
			if u.FreeCaseLastOpenedAt != nil || u.ReferrerID != nil {
				t.Fatalf("nullable columns must scan as nil: %+v", u)
			}
		})
	}
}

// A second FOR UPDATE on the same row blocks until the first tx commits.
func TestUsers_LockForUpdate_LocksRow(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	userID := pgtestutil.SeedUser(t, db, 42, 200, 0)

	repo := New(db)

	ctx1, cancel1 := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel1()

	tx1, err := db.BeginTx(ctx1, nil)
	if err != nil {
		t.Fatalf("begin tx1: %v", err)
	}
	defer func() { _ = tx1.Rollback() }()

	_, err = repo.LockForUpdate(tx1, userID)
	if err != nil {
		t.Fatalf("tx1 lock: %v", err)
	}

	var acquired atomic.Bool

	errCh := make(chan error, 1)

	go func() {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()

		tx2, e := db.BeginTx(ctx2, nil)
		if e != nil {
			errCh <- e
			return
		}
		defer func() { _ = tx2.Rollback() }()

		_, e = repo.LockForUpdate(tx2, userID)
		if e != nil {
			errCh <- e
			return
		}

		acquired.Store(true)

		errCh <- tx2.Commit()
	}()

	time.Sleep(200 * time.Millisecond)

	if acquired.Load() {
		t.Fatalf("tx2 acquired the row lock while tx1 held it")
	}

	err = tx1.Commit()
	if err != nil {
		t.Fatalf("commit tx1: %v", err)
	}

	select {
	case e := <-errCh:
		if e != nil {
			t.Fatalf("tx2 error: %v", e)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for tx2 to complete after tx1 commit")
	}
}
