package deposits

import (
	"database/sql"
	"errors"
	"time"
)

// ErrDuplicateDeposit means the payment reference was already credited.
var ErrDuplicateDeposit = errors.New("duplicate deposit")

type Deposit struct {
	ID         int64
	UserID     int64
	Amount     int64
	PaymentRef string
	CreatedAt  time.Time
}

type Deposits interface {
	Insert(tx *sql.Tx, userID, amount int64, paymentRef string) (Deposit, error)
}
