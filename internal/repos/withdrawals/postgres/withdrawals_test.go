package withdrawals

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgtestutil"
	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/repos/withdrawals"
)

func seedWithdrawn(t *testing.T, db *sql.DB, repo *withdrawalsRepo, n int) []int64 {
	t.Helper()

	userID := pgtestutil.SeedUser(t, db, 1, 0, 0)
	caseID, rewardIDs := pgtestutil.SeedCase(t, db, "paid", 100, false, []pgtestutil.RewardSeed{
		{Name: "Bear", Category: "epic", Value: 300, Weight: 1},
	})

	ids := make([]int64, 0, n)

	for range n {
		err := pgutils.WithTx(t.Context(), db, func(tx *sql.Tx) error {
			var openingID int64

			err := tx.QueryRow(`
				INSERT INTO openings (user_id, case_id, reward_id, reward_name, reward_category, reward_value, status, finalized_at)
				VALUES ($1, $2, $3, 'Bear', 'epic', 300, 'withdrawn', now())
				RETURNING id
			`, userID, caseID, rewardIDs[0]).Scan(&openingID)
			if err != nil {
				return err
			}

			w, err := repo.Enqueue(tx, openingID, userID)
			if err != nil {
				return err
			}

			ids = append(ids, w.ID)

			return nil
		})
		if err != nil {
			t.Fatalf("seed withdrawal: %v", err)
		}
	}

	return ids
}

func TestWithdrawals_ClaimIsExclusive(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	seedWithdrawn(t, db, repo, 6)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]int{}
	)

	for range 3 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			got, err := repo.ClaimPending(t.Context(), 4, time.Now().Add(-time.Hour))
			if err != nil {
				t.Errorf("claim: %v", err)
				return
			}

			mu.Lock()
			defer mu.Unlock()

			for _, w := range got {
				seen[w.ID]++

				if w.Status != withdrawals.StatusProcessing || w.RewardName != "Bear" || w.RewardValue != 300 {
					t.Errorf("unexpected claimed row: %+v", w)
				}
			}
		}()
	}

	wg.Wait()

	if len(seen) != 6 {
		t.Fatalf("every row must be claimed once, got %v", seen)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("withdrawal %d claimed %d times", id, n)
		}
	}
}

func TestWithdrawals_RetryUntilFailed(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := t.Context()
	ids := seedWithdrawn(t, db, repo, 2)

	_, err := repo.ClaimPending(ctx, 10, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	status, err := repo.MarkFailed(ctx, ids[0], "gateway down", 2)
	if err != nil || status != withdrawals.StatusPending {
		t.Fatalf("first failure must requeue: %s %v", status, err)
	}

	again, err := repo.ClaimPending(ctx, 10, time.Now().Add(-time.Hour))
	if err != nil || len(again) != 1 || again[0].ID != ids[0] || again[0].Attempts != 1 {
		t.Fatalf("requeued row must be claimable: %+v %v", again, err)
	}

	status, err = repo.MarkFailed(ctx, ids[0], "gateway down", 2)
	if err != nil || status != withdrawals.StatusFailed {
		t.Fatalf("second failure must give up: %s %v", status, err)
	}

	err = repo.MarkCompleted(ctx, ids[1])
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	// The processing row of ids[1] was completed; nothing is left to claim
	// even when every processing row counts as stale.
	left, err := repo.ClaimPending(ctx, 10, time.Now().Add(time.Hour))
	if err != nil || len(left) != 0 {
		t.Fatalf("nothing must remain: %+v %v", left, err)
	}
}
