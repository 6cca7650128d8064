package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// EconomyConfig holds the tunables of the reward engine and referral ledger.
type EconomyConfig struct {
	InitialBalance int64         `env:"ECON_INITIAL_BALANCE" envDefault:"0"`
	FreeCasePeriod time.Duration `env:"ECON_FREE_CASE_PERIOD" envDefault:"24h"`
	// Commission rates in basis points (1/100 of a percent).
	PurchaseCommissionBps int64 `env:"ECON_PURCHASE_COMMISSION_BPS" envDefault:"500"`
	DepositCommissionBps  int64 `env:"ECON_DEPOSIT_COMMISSION_BPS" envDefault:"500"`
	// "immediate" or "deferred".
	ReferralSettlement string `env:"ECON_REFERRAL_SETTLEMENT" envDefault:"immediate"`
}

type FulfillmentConfig struct {
	Interval    time.Duration `env:"FULFILLMENT_INTERVAL" envDefault:"10s"`
	BatchSize   int           `env:"FULFILLMENT_BATCH" envDefault:"20"`
	MaxAttempts int           `env:"FULFILLMENT_MAX_ATTEMPTS" envDefault:"5"`
}
