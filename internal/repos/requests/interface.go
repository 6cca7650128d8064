package requests

import (
	"database/sql"
	"errors"
)

// ErrDuplicateRequest means the request key was already processed.
var ErrDuplicateRequest = errors.New("duplicate request")

type Requests interface {
	Insert(tx *sql.Tx, requestKey string, userID int64) error
}
