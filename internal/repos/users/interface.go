package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrReferralCodeTaken   = errors.New("referral code taken")
)

type User struct {
	ID                   int64
	ExternalID           int64
	Balance              int64
	FreeCaseLastOpenedAt *time.Time
	ReferrerID           *int64
	ReferralCode         string
	CreatedAt            time.Time
}

type NewUser struct {
	ExternalID   int64
	Balance      int64
	ReferrerID   *int64
	ReferralCode string
}

type Users interface {
	// Create inserts u unless a user with the same external id exists, in
	// which case the existing row is returned and created is false.
	Create(tx *sql.Tx, u NewUser) (user User, created bool, err error)
	Get(ctx context.Context, userID int64) (User, error)
	GetByExternalID(ctx context.Context, externalID int64) (User, error)
	GetByReferralCode(ctx context.Context, code string) (User, error)
	LockForUpdate(tx *sql.Tx, userID int64) (User, error)
	IncreaseBalance(tx *sql.Tx, userID int64, amount int64) (int64, error)
	DecreaseBalance(tx *sql.Tx, userID int64, amount int64) (int64, error)
	SetFreeCaseOpenedAt(tx *sql.Tx, userID int64, at *time.Time) error
	CountReferrals(ctx context.Context, userID int64) (int64, error)
}
