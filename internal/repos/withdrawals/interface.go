package withdrawals

import (
	"context"
	"database/sql"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Withdrawal is a queued hand-over of a withdrawn opening to the outside
// world. RewardName and RewardValue are copied from the opening.
type Withdrawal struct {
	ID          int64
	OpeningID   int64
	UserID      int64
	Status      Status
	Attempts    int
	LastError   string
	RewardName  string
	RewardValue int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Withdrawals interface {
	Enqueue(tx *sql.Tx, openingID, userID int64) (Withdrawal, error)
	// ClaimPending moves up to limit pending rows, plus processing rows not
	// touched since staleBefore, to processing and returns them. Concurrent
	// callers never get the same row.
	ClaimPending(ctx context.Context, limit int, staleBefore time.Time) ([]Withdrawal, error)
	MarkCompleted(ctx context.Context, id int64) error
	// MarkFailed records an attempt; the row goes back to pending until
	// maxAttempts is reached and then stays failed.
	MarkFailed(ctx context.Context, id int64, reason string, maxAttempts int) (Status, error)
}
