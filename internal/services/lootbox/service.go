// Package lootbox is the entry point of the reward engine: every public
// operation runs as a single database transaction built from the ledger,
// cooldown, referral and rewards components.
package lootbox

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/mihailawp-gif/tgqwen/internal/config"
	"github.com/mihailawp-gif/tgqwen/internal/repos/cases"
	pgcases "github.com/mihailawp-gif/tgqwen/internal/repos/cases/postgres"
	"github.com/mihailawp-gif/tgqwen/internal/repos/commissions"
	pgcommissions "github.com/mihailawp-gif/tgqwen/internal/repos/commissions/postgres"
	"github.com/mihailawp-gif/tgqwen/internal/repos/deposits"
	pgdeposits "github.com/mihailawp-gif/tgqwen/internal/repos/deposits/postgres"
	"github.com/mihailawp-gif/tgqwen/internal/repos/openings"
	pgopenings "github.com/mihailawp-gif/tgqwen/internal/repos/openings/postgres"
	"github.com/mihailawp-gif/tgqwen/internal/repos/requests"
	pgrequests "github.com/mihailawp-gif/tgqwen/internal/repos/requests/postgres"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
	pgusers "github.com/mihailawp-gif/tgqwen/internal/repos/users/postgres"
	"github.com/mihailawp-gif/tgqwen/internal/repos/withdrawals"
	pgwithdrawals "github.com/mihailawp-gif/tgqwen/internal/repos/withdrawals/postgres"
	"github.com/mihailawp-gif/tgqwen/internal/rewards"
	"github.com/mihailawp-gif/tgqwen/internal/services/cooldown"
	"github.com/mihailawp-gif/tgqwen/internal/services/ledger"
	"github.com/mihailawp-gif/tgqwen/internal/services/referral"
)

const (
	defaultRecentLimit = 50
	maxListLimit       = 200
)

type Service struct {
	db *sql.DB

	users       users.Users
	cases       cases.Cases
	openings    openings.Openings
	commissions commissions.Commissions
	deposits    deposits.Deposits
	withdrawals withdrawals.Withdrawals
	requests    requests.Requests

	ledger   *ledger.Ledger
	cooldown *cooldown.Tracker
	referral *referral.Ledger

	pools *rewards.Cache
	src   rewards.Source
	clock clockwork.Clock
	log   *slog.Logger
	econ  config.EconomyConfig
}

// Options carries the collaborators that tests replace. Zero fields get the
// production defaults.
type Options struct {
	Clock  clockwork.Clock
	Source rewards.Source
	Logger *slog.Logger
}

func New(db *sql.DB, econ config.EconomyConfig, opts Options) (*Service, error) {
	settlement, err := referral.ParseSettlement(econ.ReferralSettlement)
	if err != nil {
		return nil, fmt.Errorf("economy config: %w", err)
	}

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Source == nil {
		src, err := rewards.NewSource()
		if err != nil {
			return nil, fmt.Errorf("init rng: %w", err)
		}

		opts.Source = src
	}

	s := &Service{
		db:          db,
		users:       pgusers.New(db),
		cases:       pgcases.New(db),
		openings:    pgopenings.New(db),
		commissions: pgcommissions.New(db),
		deposits:    pgdeposits.New(db),
		withdrawals: pgwithdrawals.New(db),
		requests:    pgrequests.New(db),
		pools:       rewards.NewCache(),
		src:         opts.Source,
		clock:       opts.Clock,
		log:         opts.Logger,
		econ:        econ,
	}

	s.ledger = ledger.New(s.users)
	s.cooldown = cooldown.New(s.users, econ.FreeCasePeriod)
	s.referral = referral.New(s.users, s.commissions, s.ledger, referral.Rates{
		CasePurchaseBps: econ.PurchaseCommissionBps,
		DepositBps:      econ.DepositCommissionBps,
	}, settlement)

	return s, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultRecentLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
