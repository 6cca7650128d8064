package cases

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mihailawp-gif/tgqwen/internal/rewards"
)

var ErrCaseNotFound = errors.New("case not found")

type Case struct {
	ID          int64
	Name        string
	Description string
	Price       int64
	IsFree      bool
	IsActive    bool
	PoolVersion int64
}

// PoolEntry is one stored (reward, weight) row of a case, in position order.
type PoolEntry struct {
	Reward rewards.Definition
	Weight float64
}

// PoolWeight is the input of ReplacePool.
type PoolWeight struct {
	RewardID int64
	Weight   float64
}

type Cases interface {
	// List returns active cases ordered by id.
	List(ctx context.Context) ([]Case, error)
	// Get returns an active case.
	Get(ctx context.Context, caseID int64) (Case, error)
	// GetForShare reads an active case and blocks pool replacement until tx ends.
	GetForShare(tx *sql.Tx, caseID int64) (Case, error)
	// LockForUpdate locks any case, active or not.
	LockForUpdate(tx *sql.Tx, caseID int64) (Case, error)
	// PoolEntries reads the pool and the version it belongs to in one snapshot.
	PoolEntries(tx *sql.Tx, caseID int64) (int64, []PoolEntry, error)
	PoolEntriesByCase(ctx context.Context, caseID int64) (int64, []PoolEntry, error)
	// ReplacePool swaps the whole pool and returns the new version. The case
	// must be locked by tx.
	ReplacePool(tx *sql.Tx, caseID int64, entries []PoolWeight) (int64, error)
}
