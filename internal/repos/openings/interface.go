package openings

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrOpeningNotFound  = errors.New("opening not found")
	ErrAlreadyFinalized = errors.New("opening already finalized")
)

// Status is the lifecycle state of an opening. Held is the only non-terminal
// state; credited marks rewards that were paid out on draw.
type Status string

const (
	StatusHeld      Status = "held"
	StatusSold      Status = "sold"
	StatusWithdrawn Status = "withdrawn"
	StatusCredited  Status = "credited"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool { return s != StatusHeld }

type Opening struct {
	ID             int64
	UserID         int64
	CaseID         int64
	RewardID       int64
	RewardName     string
	RewardCategory string
	RewardValue    int64
	Status         Status
	CreatedAt      time.Time
	FinalizedAt    *time.Time
}

type NewOpening struct {
	UserID         int64
	CaseID         int64
	RewardID       int64
	RewardName     string
	RewardCategory string
	RewardValue    int64
	Status         Status
}

type Openings interface {
	Insert(tx *sql.Tx, o NewOpening) (Opening, error)
	// LockForUser locks an opening owned by userID; anything else is not found.
	LockForUser(tx *sql.Tx, userID, openingID int64) (Opening, error)
	// Finalize moves a held opening to a terminal status.
	Finalize(tx *sql.Tx, openingID int64, to Status) (Opening, error)
	ListHeld(ctx context.Context, userID int64) ([]Opening, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]Opening, error)
}
