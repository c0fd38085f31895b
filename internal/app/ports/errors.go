package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	ErrAlreadyBusy        = errors.New("minion already busy")
	ErrNotBusy            = errors.New("minion not busy")
	ErrNoActivity         = errors.New("no activity")
	ErrNotDue             = errors.New("activity not due")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvariantViolation = errors.New("resolver invariant violation")
)
