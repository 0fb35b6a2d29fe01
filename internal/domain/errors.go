package domain

import "errors"

var (
	// Account errors
	ErrAccountLocked     = errors.New("account is locked")
	ErrInsufficientFunds = errors.New("insufficient available funds")

	// Dispute lifecycle errors
	ErrUnknownTx         = errors.New("unknown transaction id")
	ErrNotDisputable     = errors.New("transaction is not disputable")
	ErrNotDisputed       = errors.New("transaction is not under dispute")
	ErrUnknownRecordKind = errors.New("unknown record kind")
)
