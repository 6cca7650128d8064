// Package rewards holds the weighted reward pools attached to cases and the
// selector that draws from them. Everything here is pure: no storage, no
// clock, randomness only through a Source.
package rewards

import "fmt"

// Category is an informational rarity tag.
type Category string

const (
	CategoryCommon    Category = "common"
	CategoryRare      Category = "rare"
	CategoryEpic      Category = "epic"
	CategoryLegendary Category = "legendary"
)

// ParseCategory maps a stored category onto a known one. Unknown and empty
// values become CategoryCommon.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryRare, CategoryEpic, CategoryLegendary:
		return Category(s)
	default:
		return CategoryCommon
	}
}

// Payout is the effect of winning a reward. It is either AutoCredit or
// Claimable; the set is closed by the unexported marker method.
type Payout interface {
	payout()
}

// AutoCredit rewards are added straight to the winner's balance. When Table is
// set the realised amount is resampled from it at draw time and Value is only
// the nominal figure shown in catalogs.
type AutoCredit struct {
	Value int64
	Table *ValueTable
}

// Claimable rewards land in the inventory as a held item worth Value credits.
type Claimable struct {
	Value int64
}

func (AutoCredit) payout() {}
func (Claimable) payout()  {}

// Reward is one entry of a case's catalog.
type Reward struct {
	ID       int64
	Name     string
	Category Category
	Payout   Payout
}

// IsAutoCredit reports whether r is credited on draw instead of held.
func (r Reward) IsAutoCredit() bool {
	_, ok := r.Payout.(AutoCredit)
	return ok
}

// IsClaimable reports whether r goes to the inventory.
func (r Reward) IsClaimable() bool {
	_, ok := r.Payout.(Claimable)
	return ok
}

// NominalValue is the catalog worth of r.
func (r Reward) NominalValue() int64 {
	switch p := r.Payout.(type) {
	case AutoCredit:
		return p.Value
	case Claimable:
		return p.Value
	default:
		return 0
	}
}

// Definition is the storage shape of a reward before its payout variant is
// resolved.
type Definition struct {
	ID         int64
	Name       string
	Category   string
	Value      int64
	AutoCredit bool
	ValueTable string
}

// Build resolves d into a Reward, looking up its value table by name.
func (d Definition) Build() (Reward, error) {
	if d.Value < 0 {
		return Reward{}, fmt.Errorf("%w: reward %d has negative value %d", ErrInvalidPool, d.ID, d.Value)
	}

	r := Reward{
		ID:       d.ID,
		Name:     d.Name,
		Category: ParseCategory(d.Category),
	}

	if !d.AutoCredit {
		if d.ValueTable != "" {
			return Reward{}, fmt.Errorf("%w: claimable reward %d has value table %q", ErrInvalidPool, d.ID, d.ValueTable)
		}

		r.Payout = Claimable{Value: d.Value}

		return r, nil
	}

	ac := AutoCredit{Value: d.Value}

	if d.ValueTable != "" {
		t, ok := LookupTable(d.ValueTable)
		if !ok {
			return Reward{}, fmt.Errorf("%w: reward %d references unknown value table %q", ErrInvalidPool, d.ID, d.ValueTable)
		}

		ac.Table = t
	}

	r.Payout = ac

	return r, nil
}
