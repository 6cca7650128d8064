// Package preview renders the odds shown to players before opening a case.
// The figures are presentation only: the free case advertises fixed display
// chances that have nothing to do with the weights the selector uses.
package preview

import (
	"math"
	"strconv"

	"github.com/mihailawp-gif/tgqwen/internal/rewards"
)

// CurrencyChance is the advertised chance of the aggregated currency entry of
// a free case.
const CurrencyChance = 73.0

const currencyName = "STARS"

var displayChances = map[rewards.Category]float64{
	rewards.CategoryLegendary: 3,
	rewards.CategoryEpic:      5,
	rewards.CategoryRare:      8,
	rewards.CategoryCommon:    11,
}

// Entry is one line of a case preview.
type Entry struct {
	RewardID      int64            `json:"rewardId"`
	Name          string           `json:"name"`
	Category      rewards.Category `json:"category"`
	Value         string           `json:"value"`
	ChancePercent float64          `json:"chancePercent"`
	IsCurrency    bool             `json:"isCurrency"`
}

// Build returns the preview of p. Free cases get the cosmetic layout, paid
// cases show their real weights as percentages.
func Build(p *rewards.Pool, free bool) []Entry {
	if free {
		return freeCase(p)
	}

	return paidCase(p)
}

func paidCase(p *rewards.Pool) []Entry {
	entries := p.Entries()
	out := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}

		out = append(out, Entry{
			RewardID:      e.Reward.ID,
			Name:          e.Reward.Name,
			Category:      e.Reward.Category,
			Value:         valueLabel(e.Reward),
			ChancePercent: round2(e.Weight / p.TotalWeight() * 100),
			IsCurrency:    e.Reward.IsAutoCredit(),
		})
	}

	return out
}

// freeCase collapses every auto-credit entry into a single currency line and
// lists the claimable items with a chance picked by rarity.
func freeCase(p *rewards.Pool) []Entry {
	var (
		out      []Entry
		currency *Entry
		lo, hi   int64
	)

	for _, e := range p.Entries() {
		r := e.Reward

		if !r.IsAutoCredit() {
			out = append(out, Entry{
				RewardID:      r.ID,
				Name:          r.Name,
				Category:      r.Category,
				Value:         valueLabel(r),
				ChancePercent: displayChance(r.Category),
			})

			continue
		}

		elo, ehi := valueRange(r)

		if currency == nil {
			currency = &Entry{
				RewardID:      r.ID,
				Name:          currencyName,
				Category:      r.Category,
				ChancePercent: CurrencyChance,
				IsCurrency:    true,
			}
			lo, hi = elo, ehi

			continue
		}

		lo = min(lo, elo)
		hi = max(hi, ehi)
	}

	if currency == nil {
		return out
	}

	currency.Value = rangeLabel(lo, hi)

	return append([]Entry{*currency}, out...)
}

func displayChance(c rewards.Category) float64 {
	v, ok := displayChances[c]
	if !ok {
		return displayChances[rewards.CategoryCommon]
	}

	return v
}

func valueRange(r rewards.Reward) (lo, hi int64) {
	ac, ok := r.Payout.(rewards.AutoCredit)
	if ok && ac.Table != nil {
		return ac.Table.Range()
	}

	v := r.NominalValue()

	return v, v
}

func valueLabel(r rewards.Reward) string {
	lo, hi := valueRange(r)

	return rangeLabel(lo, hi)
}

func rangeLabel(lo, hi int64) string {
	if lo == hi {
		return strconv.FormatInt(lo, 10)
	}

	return strconv.FormatInt(lo, 10) + "-" + strconv.FormatInt(hi, 10)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
