package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConfiguration indicates that the budget configuration is inconsistent
// with the requested operation (wrong month, missing setting, currency
// mismatch on a scheduled transfer). Operations failing with this error are
// never retried automatically.
var ErrConfiguration = errors.New("configuration error")

// ErrInsufficientFunds indicates that a financial operation was aborted
// before any transfer executed because the funding account could not cover it.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")
