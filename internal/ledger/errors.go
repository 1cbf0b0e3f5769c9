package ledger

import (
	"errors"
	"fmt"
)

// Failure taxonomy surfaced to the boundary. Handlers map these onto HTTP
// status codes; nothing here should ever crash the process.
var (
	ErrNotFound         = errors.New("record not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStorage          = errors.New("storage failure")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
