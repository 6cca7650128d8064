package preview

import (
	"testing"

	"github.com/mihailawp-gif/tgqwen/internal/rewards"
)

func pool(t *testing.T, entries ...rewards.Entry) *rewards.Pool {
	t.Helper()

	p, err := rewards.NewPool(1, entries)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}

	return p
}

func item(id int64, cat rewards.Category, value int64) rewards.Reward {
	return rewards.Reward{ID: id, Name: "item", Category: cat, Payout: rewards.Claimable{Value: value}}
}

func TestBuild_FreeCase(t *testing.T) {
	t.Parallel()

	stars := rewards.Reward{ID: 1, Name: "Stars", Payout: rewards.AutoCredit{Value: 1, Table: rewards.StarsTable}}

	p := pool(t,
		rewards.Entry{Reward: stars, Weight: 9999},
		rewards.Entry{Reward: item(2, rewards.CategoryLegendary, 5000), Weight: 1},
		rewards.Entry{Reward: item(3, rewards.CategoryRare, 200), Weight: 0},
		rewards.Entry{Reward: item(4, "", 10), Weight: 0},
	)

	got := Build(p, true)

	if len(got) != 4 {
		t.Fatalf("want 4 entries, got %d: %+v", len(got), got)
	}

	first := got[0]
	if !first.IsCurrency || first.Name != "STARS" || first.Value != "1-10" || first.ChancePercent != CurrencyChance {
		t.Fatalf("unexpected currency line: %+v", first)
	}

	wantChances := map[int64]float64{2: 3, 3: 8, 4: 11}
	for _, e := range got[1:] {
		if e.ChancePercent != wantChances[e.RewardID] {
			t.Fatalf("reward %d: chance %v, want %v", e.RewardID, e.ChancePercent, wantChances[e.RewardID])
		}
	}
}

func TestBuild_PaidCase(t *testing.T) {
	t.Parallel()

	p := pool(t,
		rewards.Entry{Reward: item(1, rewards.CategoryCommon, 10), Weight: 95},
		rewards.Entry{Reward: item(2, rewards.CategoryEpic, 500), Weight: 5},
		rewards.Entry{Reward: item(3, rewards.CategoryEpic, 900), Weight: 0},
	)

	got := Build(p, false)

	if len(got) != 2 {
		t.Fatalf("zero-weight entries must be hidden, got %+v", got)
	}
	if got[0].ChancePercent != 95 || got[1].ChancePercent != 5 {
		t.Fatalf("unexpected chances: %+v", got)
	}
	if got[1].Value != "500" {
		t.Fatalf("value label: want 500, got %q", got[1].Value)
	}
}

func TestBuild_FreeCaseWithoutCurrency(t *testing.T) {
	t.Parallel()

	p := pool(t, rewards.Entry{Reward: item(1, rewards.CategoryEpic, 10), Weight: 1})

	got := Build(p, true)
	if len(got) != 1 || got[0].ChancePercent != 5 || got[0].IsCurrency {
		t.Fatalf("unexpected preview: %+v", got)
	}
}
