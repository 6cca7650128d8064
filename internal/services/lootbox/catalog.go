package lootbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	"github.com/mihailawp-gif/tgqwen/internal/preview"
	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
	"github.com/mihailawp-gif/tgqwen/internal/rewards"
)

// ListCases returns the active cases that can be opened. A case whose pool
// is invalid is logged and left out.
func (s *Service) ListCases(ctx context.Context) ([]CaseSummary, error) {
	list, err := s.cases.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	out := make([]CaseSummary, 0, len(list))

	for _, c := range list {
		pool, err := s.poolFor(c, func() (int64, []cases.PoolEntry, error) {
			return s.cases.PoolEntriesByCase(ctx, c.ID)
		})
		if errors.Is(err, rewards.ErrInvalidPool) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("load pool of case %d: %w", c.ID, err)
		}

		out = append(out, CaseSummary{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Price:       c.Price,
			IsFree:      c.IsFree,
			RewardCount: pool.Len(),
		})
	}

	return out, nil
}

// PreviewPool returns the odds shown to players for a case.
func (s *Service) PreviewPool(ctx context.Context, caseID int64) ([]preview.Entry, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}

	pool, err := s.poolFor(c, func() (int64, []cases.PoolEntry, error) {
		return s.cases.PoolEntriesByCase(ctx, c.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}

	return preview.Build(pool, c.IsFree), nil
}

// ReplacePool installs a new pool for caseID as a new version. The stored
// result is validated before commit, so an invalid pool is never visible.
func (s *Service) ReplacePool(ctx context.Context, caseID int64, entries []cases.PoolWeight) (int64, error) {
	for i, e := range entries {
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
			return 0, fmt.Errorf("replace pool of case %d: %w: entry %d has weight %v", caseID, rewards.ErrInvalidPool, i, e.Weight)
		}
	}

	var version int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := s.cases.LockForUpdate(tx, caseID)
		if err != nil {
			return fmt.Errorf("lock case: %w", err)
		}

		version, err = s.cases.ReplacePool(tx, caseID, entries)
		if err != nil {
			if pgutils.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: unknown reward", rewards.ErrInvalidPool)
			}

			return fmt.Errorf("replace pool: %w", err)
		}

		v, stored, err := s.cases.PoolEntries(tx, caseID)
		if err != nil {
			return fmt.Errorf("reload pool: %w", err)
		}

		_, err = buildPool(v, stored)
		if err != nil {
			return fmt.Errorf("validate pool: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replace pool of case %d: %w", caseID, err)
	}

	s.pools.Invalidate(caseID)
	s.log.Info("case pool replaced", "case_id", caseID, "pool_version", version, "entries", len(entries))

	return version, nil
}

// poolFor returns the cached pool of c at its current version, loading it
// with read when needed.
func (s *Service) poolFor(c cases.Case, read func() (int64, []cases.PoolEntry, error)) (*rewards.Pool, error) {
	pool, err := s.pools.Get(c.ID, c.PoolVersion, func() (*rewards.Pool, error) {
		version, entries, err := read()
		if err != nil {
			return nil, err
		}

		p, err := buildPool(version, entries)
		if err != nil {
			s.log.Error("case has an invalid reward pool",
				"case_id", c.ID, "pool_version", version, "error", err)
		}

		return p, err
	})
	if err != nil {
		return nil, err
	}

	return pool, nil
}

func buildPool(version int64, entries []cases.PoolEntry) (*rewards.Pool, error) {
	built := make([]rewards.Entry, 0, len(entries))

	for _, e := range entries {
		r, err := e.Reward.Build()
		if err != nil {
			return nil, err
		}

		built = append(built, rewards.Entry{Reward: r, Weight: e.Weight})
	}

	return rewards.NewPool(version, built)
}
