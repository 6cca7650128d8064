package lootbox

import (
	"errors"
	"sync"
	"testing"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgtestutil"
	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
)

func openHeld(t *testing.T, s *Service, userID, caseID int64) openings.Opening {
	t.Helper()

	res, err := s.OpenCase(t.Context(), OpenRequest{UserID: userID, CaseID: caseID})
	if err != nil {
		t.Fatalf("open case: %v", err)
	}

	if res.Opening.Status != openings.StatusHeld {
		t.Fatalf("want held opening, got %+v", res.Opening)
	}

	return res.Opening
}

func TestSellOpening(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s, _ := newTestService(t, db, testEconomy(), nil)
	ctx := t.Context()

	userID := pgtestutil.SeedUser(t, db, 1, 100, 0)
	caseID, _ := pgtestutil.SeedCase(t, db, "paid", 100, false, bearPool())

	o := openHeld(t, s, userID, caseID)

	inv, err := s.ListHeldInventory(ctx, userID)
	if err != nil || len(inv) != 1 || inv[0].ID != o.ID {
		t.Fatalf("inventory: %+v %v", inv, err)
	}

	res, err := s.SellOpening(ctx, userID, o.ID)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}

	if res.Amount != 300 || res.Balance != 300 || pgtestutil.Balance(t, db, userID) != 300 {
		t.Fatalf("sell result: %+v, stored balance %d", res, pgtestutil.Balance(t, db, userID))
	}

	var status string

	err = db.QueryRow(`SELECT status FROM openings WHERE id = $1`, o.ID).Scan(&status)
	if err != nil || status != string(openings.StatusSold) {
		t.Fatalf("status: %q %v", status, err)
	}

	_, err = s.SellOpening(ctx, userID, o.ID)
	if !errors.Is(err, openings.ErrAlreadyFinalized) {
		t.Fatalf("second sell: want ErrAlreadyFinalized, got %v", err)
	}

	err = s.WithdrawOpening(ctx, userID, o.ID)
	if !errors.Is(err, openings.ErrAlreadyFinalized) {
		t.Fatalf("withdraw after sell: want ErrAlreadyFinalized, got %v", err)
	}

	if got := pgtestutil.Balance(t, db, userID); got != 300 {
		t.Fatalf("balance must not change after rejections: %d", got)
	}

	inv, err = s.ListHeldInventory(ctx, userID)
	if err != nil || len(inv) != 0 {
		t.Fatalf("sold items leave the inventory: %+v %v", inv, err)
	}
}

func TestSellOpening_OtherUsersItem(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s, _ := newTestService(t, db, testEconomy(), nil)

	owner := pgtestutil.SeedUser(t, db, 1, 100, 0)
	other := pgtestutil.SeedUser(t, db, 2, 0, 0)
	caseID, _ := pgtestutil.SeedCase(t, db, "paid", 100, false, bearPool())

	o := openHeld(t, s, owner, caseID)

	_, err := s.SellOpening(t.Context(), other, o.ID)
	if !errors.Is(err, openings.ErrOpeningNotFound) {
		t.Fatalf("want ErrOpeningNotFound, got %v", err)
	}

	if got := pgtestutil.Balance(t, db, other); got != 0 {
		t.Fatalf("foreign sell must not credit: %d", got)
	}
}

func TestSellOpening_ConcurrentSellsCreditOnce(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s, _ := newTestService(t, db, testEconomy(), nil)

	userID := pgtestutil.SeedUser(t, db, 1, 100, 0)
	caseID, _ := pgtestutil.SeedCase(t, db, "paid", 100, false, bearPool())

	o := openHeld(t, s, userID, caseID)

	var (
		wg            sync.WaitGroup
		mu            sync.Mutex
		ok, finalized int
	)

	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := s.SellOpening(t.Context(), userID, o.ID)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				ok++
			case errors.Is(err, openings.ErrAlreadyFinalized):
				finalized++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if ok != 1 || finalized != 3 {
		t.Fatalf("want one sale, got ok=%d finalized=%d", ok, finalized)
	}
	if got := pgtestutil.Balance(t, db, userID); got != 300 {
		t.Fatalf("balance: want 300, got %d", got)
	}
}

func TestWithdrawOpening(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s, _ := newTestService(t, db, testEconomy(), nil)
	ctx := t.Context()

	userID := pgtestutil.SeedUser(t, db, 1, 100, 0)
	caseID, _ := pgtestutil.SeedCase(t, db, "paid", 100, false, bearPool())

	o := openHeld(t, s, userID, caseID)

	err := s.WithdrawOpening(ctx, userID, o.ID)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if got := pgtestutil.Balance(t, db, userID); got != 0 {
		t.Fatalf("withdraw must not credit: %d", got)
	}

	n := countRows(t, db, `SELECT COUNT(*) FROM withdrawals WHERE opening_id = $1 AND status = 'pending'`, o.ID)
	if n != 1 {
		t.Fatalf("want one pending withdrawal, got %d", n)
	}

	_, err = s.SellOpening(ctx, userID, o.ID)
	if !errors.Is(err, openings.ErrAlreadyFinalized) {
		t.Fatalf("sell after withdraw: want ErrAlreadyFinalized, got %v", err)
	}
}

func TestRecentOpenings(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s, _ := newTestService(t, db, testEconomy(), nil)

	userID := pgtestutil.SeedUser(t, db, 1, 1000, 0)
	caseID, _ := pgtestutil.SeedCase(t, db, "paid", 100, false, bearPool())

	var last openings.Opening
	for range 3 {
		last = openHeld(t, s, userID, caseID)
	}

	list, err := s.RecentOpenings(t.Context(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}

	if len(list) != 2 || list[0].ID != last.ID {
		t.Fatalf("want the two newest, got %+v", list)
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{in: -1, want: defaultRecentLimit},
		{in: 0, want: defaultRecentLimit},
		{in: 10, want: 10},
		{in: maxListLimit + 1, want: maxListLimit},
	}

	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
