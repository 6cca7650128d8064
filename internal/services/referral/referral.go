// Package referral pays referrers a share of what their referees spend.
package referral

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
	"github.com/mihailawp-gif/tgqwen/internal/services/ledger"
)

// Settlement decides when a commission reaches the referrer's balance.
type Settlement string

const (
	// SettleImmediate credits the referrer in the transaction of the event.
	SettleImmediate Settlement = "immediate"
	// SettleDeferred accumulates commissions until the referrer withdraws.
	SettleDeferred Settlement = "deferred"
)

func ParseSettlement(s string) (Settlement, error) {
	switch Settlement(s) {
	case SettleImmediate, SettleDeferred:
		return Settlement(s), nil
	default:
		return "", fmt.Errorf("unknown referral settlement %q", s)
	}
}

// Rates are commission rates in basis points per trigger.
type Rates struct {
	CasePurchaseBps int64
	DepositBps      int64
}

var DefaultRates = Rates{CasePurchaseBps: 500, DepositBps: 500}

func (r Rates) For(t commissions.Trigger) int64 {
	switch t {
	case commissions.TriggerCasePurchase:
		return r.CasePurchaseBps
	case commissions.TriggerDeposit:
		return r.DepositBps
	default:
		return 0
	}
}

// Commission is floor(amount * bps / 10000); never negative.
func Commission(amount, bps int64) int64 {
	if amount <= 0 || bps <= 0 {
		return 0
	}

	return amount * bps / 10_000
}

// EventRef builds the idempotency reference of a triggering event.
func EventRef(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}

type Ledger struct {
	users       users.Users
	commissions commissions.Commissions
	ledger      *ledger.Ledger
	rates       Rates
	settlement  Settlement
}

func New(u users.Users, c commissions.Commissions, l *ledger.Ledger, rates Rates, settlement Settlement) *Ledger {
	if settlement == "" {
		settlement = SettleImmediate
	}

	return &Ledger{users: u, commissions: c, ledger: l, rates: rates, settlement: settlement}
}

func (l *Ledger) Settlement() Settlement { return l.settlement }

// Record appends the commission owed for source's event inside tx. It is a
// no-op when source has no referrer or the commission rounds down to zero;
// ok reports whether a record was written. The caller must already hold the
// lock on source, so the referrer is always locked second.
func (l *Ledger) Record(tx *sql.Tx, source users.User, trigger commissions.Trigger, amount int64, eventRef string) (c commissions.Commission, ok bool, err error) {
	if source.ReferrerID == nil || *source.ReferrerID == source.ID {
		return commissions.Commission{}, false, nil
	}

	value := Commission(amount, l.rates.For(trigger))
	if value == 0 {
		return commissions.Commission{}, false, nil
	}

	immediate := l.settlement == SettleImmediate

	c, err = l.commissions.Insert(tx, commissions.NewCommission{
		BeneficiaryID: *source.ReferrerID,
		SourceUserID:  source.ID,
		Amount:        value,
		Trigger:       trigger,
		EventRef:      eventRef,
		Claimed:       immediate,
	})
	if err != nil {
		return commissions.Commission{}, false, fmt.Errorf("insert commission: %w", err)
	}

	if immediate {
		_, err = l.ledger.Credit(tx, *source.ReferrerID, value)
		if err != nil {
			return commissions.Commission{}, false, fmt.Errorf("credit referrer: %w", err)
		}
	}

	return c, true, nil
}

// Withdraw credits every unclaimed commission of userID once and returns the
// credited sum with the new balance. Under immediate settlement there is
// never anything to claim.
func (l *Ledger) Withdraw(tx *sql.Tx, userID int64) (credited, balance int64, err error) {
	u, err := l.users.LockForUpdate(tx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("lock user: %w", err)
	}

	sum, err := l.commissions.ClaimAll(tx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("claim commissions: %w", err)
	}

	if sum == 0 {
		return 0, u.Balance, nil
	}

	balance, err = l.ledger.Credit(tx, userID, sum)
	if err != nil {
		return 0, 0, fmt.Errorf("credit commissions: %w", err)
	}

	return sum, balance, nil
}
