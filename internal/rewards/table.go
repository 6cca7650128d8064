package rewards

import "fmt"

// ValueTable is a fixed discrete distribution over credit amounts, used to
// resample the realised value of an auto-credit reward.
type ValueTable struct {
	name    string
	amounts []int64
	weights []float64
	total   float64
}

// NewValueTable builds a table; amounts and weights are paired by index.
func NewValueTable(name string, amounts []int64, weights []float64) (*ValueTable, error) {
	if len(amounts) == 0 || len(amounts) != len(weights) {
		return nil, fmt.Errorf("%w: value table %q has %d amounts and %d weights", ErrInvalidPool, name, len(amounts), len(weights))
	}

	var total float64

	for i, w := range weights {
		if w < 0 || amounts[i] < 0 {
			return nil, fmt.Errorf("%w: value table %q entry %d is negative", ErrInvalidPool, name, i)
		}

		total += w
	}

	if total <= 0 {
		return nil, fmt.Errorf("%w: value table %q has no weight", ErrInvalidPool, name)
	}

	t := &ValueTable{
		name:    name,
		amounts: append([]int64(nil), amounts...),
		weights: append([]float64(nil), weights...),
		total:   total,
	}

	return t, nil
}

func mustValueTable(name string, amounts []int64, weights []float64) *ValueTable {
	t, err := NewValueTable(name, amounts, weights)
	if err != nil {
		panic(err)
	}

	return t
}

// Name identifies the table in storage.
func (t *ValueTable) Name() string { return t.name }

// Range reports the smallest and largest amount the table can produce.
func (t *ValueTable) Range() (lo, hi int64) {
	lo, hi = t.amounts[0], t.amounts[0]

	for i, a := range t.amounts {
		if t.weights[i] <= 0 {
			continue
		}

		lo = min(lo, a)
		hi = max(hi, a)
	}

	return lo, hi
}

// Sample draws one amount with a single sample from src.
func (t *ValueTable) Sample(src Source) int64 {
	return t.amounts[pick(t.weights, t.total, src.Float64())]
}

// StarsTable is the free case currency table: 1..10 credits tapering off
// towards the larger amounts.
var StarsTable = mustValueTable(
	"stars_1_10",
	[]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	[]float64{25, 20, 15, 12, 10, 7, 5, 3, 2, 1},
)

var tables = map[string]*ValueTable{
	StarsTable.Name(): StarsTable,
}

// LookupTable returns the built-in table registered under name.
func LookupTable(name string) (*ValueTable, bool) {
	t, ok := tables[name]
	return t, ok
}

// Realize returns the amount credited for an auto-credit payout, consuming
// one sample from src only when the payout resamples from a table.
func Realize(p AutoCredit, src Source) int64 {
	if p.Table == nil {
		return p.Value
	}

	return p.Table.Sample(src)
}
