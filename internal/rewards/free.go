package rewards

// BonusChance is the probability that a free case yields a claimable item
// instead of currency.
const BonusChance = 0.0001

// DrawFree draws the single reward of a free case.
//
// One bonus roll is made first. When it lands below BonusChance a claimable
// entry is chosen uniformly; otherwise the currency draw runs over the
// auto-credit entries by weight. Either branch falls back to a plain Draw over
// the whole pool when it has nothing to choose from.
func DrawFree(p *Pool, src Source) Reward {
	if src.Float64() < BonusChance {
		items, ok := p.UniformSubset(Reward.IsClaimable)
		if ok {
			return Draw(items, src)
		}

		return Draw(p, src)
	}

	currency, ok := p.Subset(Reward.IsAutoCredit)
	if ok {
		return Draw(currency, src)
	}

	return Draw(p, src)
}
