package domain

import "github.com/shopspring/decimal"

// Kind identifies what a transaction record does to a client account.
type Kind uint8

const (
	// KindDeposit increases the available and total funds.
	KindDeposit Kind = iota
	// KindWithdrawal decreases the available and total funds.
	KindWithdrawal
	// KindDispute moves a previously deposited amount from available to held.
	KindDispute
	// KindResolve releases a disputed amount back to available.
	KindResolve
	// KindChargeback withdraws a disputed amount and freezes the account.
	KindChargeback
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	}
	return "unknown"
}

// HasAmount reports whether records of this kind carry an amount column.
// Dispute, resolve and chargeback reference an earlier transaction instead.
func (k Kind) HasAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Record is one transaction event from the input stream.
type Record struct {
	Kind   Kind
	Client uint16
	Tx     uint32
	// Amount is zero for dispute, resolve and chargeback records.
	Amount decimal.Decimal
	// Seq is the record's dense position in input byte order, assigned by
	// the reorderer. It is the only authoritative chronology.
	Seq uint64
}
