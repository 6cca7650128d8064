package rewards

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPool marks a pool that can never be drawn from.
var ErrInvalidPool = errors.New("invalid reward pool")

// Entry is one (reward, weight) pair of a pool.
type Entry struct {
	Reward Reward
	Weight float64
}

// Pool is an immutable, ordered, weighted set of rewards. The zero value is
// not usable; build pools with NewPool.
type Pool struct {
	version int64
	entries []Entry
	weights []float64
	total   float64
}

// NewPool validates entries and returns a pool tagged with version.
// It fails with ErrInvalidPool on an empty pool, a negative or non-finite
// weight, or a non-positive total.
func NewPool(version int64, entries []Entry) (*Pool, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidPool)
	}

	var total float64

	for i, e := range entries {
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
			return nil, fmt.Errorf("%w: entry %d (reward %d) has weight %v", ErrInvalidPool, i, e.Reward.ID, e.Weight)
		}
		if e.Reward.Payout == nil {
			return nil, fmt.Errorf("%w: entry %d (reward %d) has no payout", ErrInvalidPool, i, e.Reward.ID)
		}

		total += e.Weight
	}

	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total weight %v", ErrInvalidPool, total)
	}

	cp := make([]Entry, len(entries))
	copy(cp, entries)

	weights := make([]float64, len(entries))
	for i, e := range entries {
		weights[i] = e.Weight
	}

	return &Pool{version: version, entries: cp, weights: weights, total: total}, nil
}

// Version is the catalog version the pool was built from.
func (p *Pool) Version() int64 { return p.version }

// TotalWeight is the sum of all weights; always positive.
func (p *Pool) TotalWeight() float64 { return p.total }

// Len is the number of entries.
func (p *Pool) Len() int { return len(p.entries) }

// Entries returns a copy of the pool's pairs in iteration order.
func (p *Pool) Entries() []Entry {
	cp := make([]Entry, len(p.entries))
	copy(cp, p.entries)

	return cp
}

// Subset keeps the entries matching keep, with their weights. ok is false
// when nothing with positive weight remains.
func (p *Pool) Subset(keep func(Reward) bool) (sub *Pool, ok bool) {
	var picked []Entry

	for _, e := range p.entries {
		if keep(e.Reward) {
			picked = append(picked, e)
		}
	}

	sub, err := NewPool(p.version, picked)
	if err != nil {
		return nil, false
	}

	return sub, true
}

// UniformSubset keeps the entries matching keep and gives each weight 1.
// ok is false when nothing matches.
func (p *Pool) UniformSubset(keep func(Reward) bool) (sub *Pool, ok bool) {
	var picked []Entry

	for _, e := range p.entries {
		if keep(e.Reward) {
			picked = append(picked, Entry{Reward: e.Reward, Weight: 1})
		}
	}

	sub, err := NewPool(p.version, picked)
	if err != nil {
		return nil, false
	}

	return sub, true
}
