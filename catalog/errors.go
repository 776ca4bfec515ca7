package catalog

import "errors"

// Domain errors reported by the store and manager. All are recoverable: the
// menu loop prints them and keeps running. Callers match with errors.Is.
var (
	// ErrNotFound means no book or member exists for the given key.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey means an add would reuse an existing ISBN or member ID.
	ErrDuplicateKey = errors.New("already exists")

	// ErrResourceInUse blocks removing a book or member with an active loan.
	ErrResourceInUse = errors.New("has an active loan")

	// ErrAlreadyCheckedOut blocks issuing a book that is already out.
	ErrAlreadyCheckedOut = errors.New("already checked out")

	// ErrNoActiveLoan means a return was requested for a book nobody holds.
	ErrNoActiveLoan = errors.New("no active loan")
)
