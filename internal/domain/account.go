package domain

import "github.com/shopspring/decimal"

// TxState tracks the dispute lifecycle of an applied transaction.
type TxState uint8

const (
	TxPosted TxState = iota
	TxDisputed
	TxResolved
	TxChargedBack
)

func (s TxState) String() string {
	switch s {
	case TxPosted:
		return "posted"
	case TxDisputed:
		return "disputed"
	case TxResolved:
		return "resolved"
	case TxChargedBack:
		return "charged_back"
	}
	return "unknown"
}

// TxEntry is what an account remembers about a successfully applied
// deposit or withdrawal, keyed by transaction id. Dispute-family records
// mutate the entry state instead of inserting new entries.
type TxEntry struct {
	Kind   Kind
	Amount decimal.Decimal
	State  TxState
}

// Account holds the balances and transaction history for one client.
// The invariant Available + Held = Total holds after every applied record.
//
// An account is owned by exactly one shard for the whole run, so none of
// its methods are safe for concurrent use.
type Account struct {
	ID        uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool

	history map[uint32]*TxEntry
}

// NewAccount creates an empty, unlocked account for a client.
func NewAccount(id uint16) *Account {
	return &Account{
		ID:        id,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
		history:   make(map[uint32]*TxEntry),
	}
}

// Apply runs one record against the account. A non-nil error means the
// record had no effect; the caller decides whether that is worth logging.
// Once the account is locked every record is rejected.
func (a *Account) Apply(r Record) error {
	if a.Locked {
		return ErrAccountLocked
	}

	switch r.Kind {
	case KindDeposit:
		return a.deposit(r.Tx, r.Amount)
	case KindWithdrawal:
		return a.withdraw(r.Tx, r.Amount)
	case KindDispute:
		return a.dispute(r.Tx)
	case KindResolve:
		return a.resolve(r.Tx)
	case KindChargeback:
		return a.chargeback(r.Tx)
	default:
		return ErrUnknownRecordKind
	}
}

// Tx looks up the history entry for a transaction id.
func (a *Account) Tx(tx uint32) (TxEntry, bool) {
	e, ok := a.history[tx]
	if !ok {
		return TxEntry{}, false
	}
	return *e, true
}

func (a *Account) deposit(tx uint32, amount decimal.Decimal) error {
	a.Available = a.Available.Add(amount)
	a.Total = a.Total.Add(amount)
	if _, ok := a.history[tx]; !ok {
		a.history[tx] = &TxEntry{Kind: KindDeposit, Amount: amount, State: TxPosted}
	}
	return nil
}

func (a *Account) withdraw(tx uint32, amount decimal.Decimal) error {
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Available = a.Available.Sub(amount)
	a.Total = a.Total.Sub(amount)
	if _, ok := a.history[tx]; !ok {
		a.history[tx] = &TxEntry{Kind: KindWithdrawal, Amount: amount, State: TxPosted}
	}
	return nil
}

// dispute moves the disputed amount from available to held. Only deposits
// in the posted state can be disputed: reversing a withdrawal would either
// recreate funds that were already paid out or drive held negative.
// Re-disputing a resolved transaction is not permitted.
func (a *Account) dispute(tx uint32) error {
	e, ok := a.history[tx]
	if !ok {
		return ErrUnknownTx
	}
	if e.Kind != KindDeposit || e.State != TxPosted {
		return ErrNotDisputable
	}
	a.Available = a.Available.Sub(e.Amount)
	a.Held = a.Held.Add(e.Amount)
	e.State = TxDisputed
	return nil
}

func (a *Account) resolve(tx uint32) error {
	e, ok := a.history[tx]
	if !ok {
		return ErrUnknownTx
	}
	if e.State != TxDisputed {
		return ErrNotDisputed
	}
	a.Available = a.Available.Add(e.Amount)
	a.Held = a.Held.Sub(e.Amount)
	e.State = TxResolved
	return nil
}

func (a *Account) chargeback(tx uint32) error {
	e, ok := a.history[tx]
	if !ok {
		return ErrUnknownTx
	}
	if e.State != TxDisputed {
		return ErrNotDisputed
	}
	a.Held = a.Held.Sub(e.Amount)
	a.Total = a.Total.Sub(e.Amount)
	a.Locked = true
	e.State = TxChargedBack
	return nil
}
