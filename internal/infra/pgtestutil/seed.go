package pgtestutil

import (
	"database/sql"
	"fmt"
	"testing"
)

// SeedUser inserts a user and returns its id. referrerID may be zero.
func SeedUser(t *testing.T, db *sql.DB, externalID, balance, referrerID int64) int64 {
	t.Helper()

	var ref any
	if referrerID != 0 {
		ref = referrerID
	}

	var id int64

	err := db.QueryRow(`
		INSERT INTO users (external_id, balance, referrer_id, referral_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, externalID, balance, ref, fmt.Sprintf("REF%d", externalID)).Scan(&id)
	if err != nil {
		t.Fatalf("seed user(%d): %v", externalID, err)
	}

	return id
}

// Balance reads a user's balance outside any transaction.
func Balance(t *testing.T, db *sql.DB, userID int64) int64 {
	t.Helper()

	var balance int64

	err := db.QueryRow(`SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		t.Fatalf("read balance(%d): %v", userID, err)
	}

	return balance
}

// RewardSeed describes one reward row.
type RewardSeed struct {
	Name       string
	Category   string
	Value      int64
	AutoCredit bool
	ValueTable string
	Weight     float64
}

// SeedCase inserts a case with its pool; rewards are created alongside in
// the given order. Returns the case id and the reward ids.
func SeedCase(t *testing.T, db *sql.DB, name string, price int64, free bool, pool []RewardSeed) (int64, []int64) {
	t.Helper()

	var caseID int64

	err := db.QueryRow(`
		INSERT INTO cases (name, price, is_free)
		VALUES ($1, $2, $3)
		RETURNING id
	`, name, price, free).Scan(&caseID)
	if err != nil {
		t.Fatalf("seed case %q: %v", name, err)
	}

	ids := make([]int64, 0, len(pool))

	for i, r := range pool {
		var table any
		if r.ValueTable != "" {
			table = r.ValueTable
		}

		category := r.Category
		if category == "" {
			category = "common"
		}

		var rewardID int64

		err = db.QueryRow(`
			INSERT INTO rewards (name, category, value, auto_credit, value_table)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, r.Name, category, r.Value, r.AutoCredit, table).Scan(&rewardID)
		if err != nil {
			t.Fatalf("seed reward %q: %v", r.Name, err)
		}

		_, err = db.Exec(`
			INSERT INTO case_rewards (case_id, position, reward_id, weight)
			VALUES ($1, $2, $3, $4)
		`, caseID, i+1, rewardID, r.Weight)
		if err != nil {
			t.Fatalf("seed case reward %q: %v", r.Name, err)
		}

		ids = append(ids, rewardID)
	}

	return caseID, ids
}
