package apperrors

import "errors"

// ErrNotFound indicates that a referenced account could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrForbidden indicates that the caller does not own the account it is acting on.
var ErrForbidden = errors.New("forbidden")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates storage-level contention: a stale version token,
// a unique-constraint race, or a deadlock detected by the store.
var ErrConflict = errors.New("storage conflict")

// ErrInsufficientFunds indicates a debit larger than the account balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrDuplicateRequest indicates the idempotency key was already used for this account.
var ErrDuplicateRequest = errors.New("duplicate request")
