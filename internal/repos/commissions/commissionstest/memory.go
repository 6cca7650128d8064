// Package commissionstest provides an in-memory commissions.Commissions.
package commissionstest

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
)

type Memory struct {
	mu   sync.Mutex
	rows []commissions.Commission
}

var _ commissions.Commissions = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

// All returns a copy of every stored commission in insertion order.
func (m *Memory) All() []commissions.Commission {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.rows)
}

func (m *Memory) Insert(_ *sql.Tx, n commissions.NewCommission) (commissions.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.rows {
		if c.Trigger == n.Trigger && c.EventRef == n.EventRef {
			return commissions.Commission{}, commissions.ErrDuplicateCommission
		}
	}

	now := time.Now()

	c := commissions.Commission{
		ID:            int64(len(m.rows) + 1),
		BeneficiaryID: n.BeneficiaryID,
		SourceUserID:  n.SourceUserID,
		Amount:        n.Amount,
		Trigger:       n.Trigger,
		EventRef:      n.EventRef,
		Claimed:       n.Claimed,
		CreatedAt:     now,
	}
	if n.Claimed {
		c.ClaimedAt = &now
	}

	m.rows = append(m.rows, c)

	return c, nil
}

func (m *Memory) ClaimAll(_ *sql.Tx, beneficiaryID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sum int64

	now := time.Now()

	for i := range m.rows {
		c := &m.rows[i]
		if c.BeneficiaryID != beneficiaryID || c.Claimed {
			continue
		}

		c.Claimed = true
		c.ClaimedAt = &now
		sum += c.Amount
	}

	return sum, nil
}

func (m *Memory) ListByBeneficiary(_ context.Context, beneficiaryID int64, limit int) ([]commissions.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []commissions.Commission

	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].BeneficiaryID == beneficiaryID {
			out = append(out, m.rows[i])
		}
	}

	return out, nil
}

func (m *Memory) Totals(_ context.Context, beneficiaryID int64) (earned, unclaimed int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.rows {
		if c.BeneficiaryID != beneficiaryID {
			continue
		}

		earned += c.Amount
		if !c.Claimed {
			unclaimed += c.Amount
		}
	}

	return earned, unclaimed, nil
}
