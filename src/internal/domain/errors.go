package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks malformed input. The operation aborts with no
// state change.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrInvalidArgument)
	ErrInvalidStatus   = fmt.Errorf("%w: invalid status", ErrInvalidArgument)
	ErrInvalidRate     = fmt.Errorf("%w: invalid rate", ErrInvalidArgument)
	ErrInvalidAccount  = fmt.Errorf("%w: invalid account", ErrInvalidArgument)
	ErrInvalidQuantity = fmt.Errorf("%w: invalid quantity", ErrInvalidArgument)
	ErrInvalidSymbol   = fmt.Errorf("%w: invalid symbol", ErrInvalidArgument)
)

// ErrRejected marks a business-rule failure. The boolean-returning
// operations report these as false.
var ErrRejected = errors.New("operation rejected")

var (
	ErrAccountNotFound    = fmt.Errorf("%w: account not found", ErrRejected)
	ErrAccountNotActive   = fmt.Errorf("%w: account is not active", ErrRejected)
	ErrCurrencyMismatch   = fmt.Errorf("%w: currency mismatch", ErrRejected)
	ErrInsufficientFunds  = fmt.Errorf("%w: insufficient funds", ErrRejected)
	ErrInsufficientShares = fmt.Errorf("%w: insufficient shares", ErrRejected)
	ErrUnknownSymbol      = fmt.Errorf("%w: no price for symbol", ErrRejected)
	ErrSameAccount        = fmt.Errorf("%w: source and destination are the same account", ErrRejected)
)

var ErrAccountExists = errors.New("account already exists")
