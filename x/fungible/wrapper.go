package fungible

import (
	"context"

	"github.com/iov-one/ledger"
)

// Wrapper composes a Ledger with an underlying peer token. Each wrapped unit
// is backed by one underlying unit held by the wrapper account.
type Wrapper struct {
	ledger     *Ledger
	underlying ledger.Account
	self       ledger.Account
}

// NewWrapper returns a wrapper minting units of given ledger against the
// underlying token. Self is the account holding the underlying units.
func NewWrapper(l *Ledger, underlying, self ledger.Account) *Wrapper {
	return &Wrapper{
		ledger:     l,
		underlying: underlying,
		self:       self,
	}
}

// Underlying returns the account of the wrapped token.
func (w *Wrapper) Underlying() ledger.Account {
	return w.underlying
}

// DepositFor pulls value underlying units from caller and mints the same
// value of wrapped units to account. The caller must have approved the
// wrapper account on the underlying token.
func (w *Wrapper) DepositFor(ctx context.Context, db ledger.KVStore, port Port, caller, account ledger.Account, value ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(caller, account); err != nil {
		return nil, err
	}
	// Refuse before pulling anything if the mint cannot succeed.
	if _, err := w.ledger.checkMint(db, value); err != nil {
		return nil, err
	}
	if err := w.ledger.Deposit(ctx, port, w.underlying, caller, w.self, value); err != nil {
		return nil, err
	}
	return w.ledger.Mint(db, account, value)
}

// WithdrawTo burns value wrapped units of caller and sends the same value of
// underlying units to account.
//
// The burn is written before the underlying transfer is issued. If the
// transfer fails, the caller must discard the writes of this operation.
func (w *Wrapper) WithdrawTo(ctx context.Context, db ledger.KVStore, port Port, caller, account ledger.Account, value ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(account); err != nil {
		return nil, err
	}
	events, err := w.ledger.Burn(db, caller, value)
	if err != nil {
		return nil, err
	}
	if err := w.ledger.Withdraw(ctx, port, w.underlying, account, value); err != nil {
		return nil, err
	}
	return events, nil
}
