package lootbox

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mihailawp-gif/tgqwen/internal/config"
	"github.com/mihailawp-gif/tgqwen/internal/infra/logging"
	"github.com/mihailawp-gif/tgqwen/internal/rewards"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testEconomy() config.EconomyConfig {
	return config.EconomyConfig{
		FreeCasePeriod:        24 * time.Hour,
		PurchaseCommissionBps: 500,
		DepositCommissionBps:  500,
		ReferralSettlement:    "immediate",
	}
}

func newTestService(t *testing.T, db *sql.DB, econ config.EconomyConfig, src rewards.Source) (*Service, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(testStart)

	if src == nil {
		src = rewards.NewSeededSource([32]byte{1})
	}

	s, err := New(db, econ, Options{Clock: clock, Source: src, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return s, clock
}

// fixedSource always returns the same sample; safe for concurrent use.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()

	var n int64

	err := db.QueryRow(query, args...).Scan(&n)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}

	return n
}
