package fungible

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

var supplyKey = []byte("total")

// Ledger keeps the balances, allowances and total supply of one token.
//
// Invariant: the total supply is always the sum of all balances. Balances
// and allowances are sparse, an entry that drops to zero is deleted.
type Ledger struct {
	balances   orm.Bucket
	allowances orm.Bucket
	supply     orm.Bucket
}

// NewLedger returns a ledger keeping its state under given namespace. Use a
// distinct namespace for every token sharing the same store. Empty namespace
// is allowed for a store holding a single token.
func NewLedger(namespace string) *Ledger {
	return &Ledger{
		balances:   orm.NewBucket(bucketName(namespace, "balance")),
		allowances: orm.NewBucket(bucketName(namespace, "allowance")),
		supply:     orm.NewBucket(bucketName(namespace, "supply")),
	}
}

func bucketName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "/" + name
}

func allowanceKey(owner, spender ledger.Account) []byte {
	return orm.CompositeKey(owner, spender)
}

// TotalSupply returns the amount of all units in circulation.
func (l *Ledger) TotalSupply(db ledger.ReadOnlyKVStore) (ledger.Amount, error) {
	return l.supply.GetAmount(db, supplyKey)
}

// BalanceOf returns the balance of given account, zero if it holds nothing.
func (l *Ledger) BalanceOf(db ledger.ReadOnlyKVStore, owner ledger.Account) (ledger.Amount, error) {
	return l.balances.GetAmount(db, owner)
}

// Allowance returns the amount spender may still transfer on behalf of
// owner.
func (l *Ledger) Allowance(db ledger.ReadOnlyKVStore, owner, spender ledger.Account) (ledger.Amount, error) {
	return l.allowances.GetAmount(db, allowanceKey(owner, spender))
}

// Init creates the initial supply, credited to the creator.
func (l *Ledger) Init(db ledger.KVStore, supply ledger.Amount, creator ledger.Account) ([]ledger.Event, error) {
	return l.Mint(db, creator, supply)
}

// Transfer moves value from caller to given account.
func (l *Ledger) Transfer(db ledger.KVStore, caller, to ledger.Account, value ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(caller, to); err != nil {
		return nil, err
	}
	if caller.Equals(to) || value.IsZero() {
		return nil, nil
	}
	if err := l.move(db, caller, to, value); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&TransferEvent{From: caller, To: to, Value: value},
	}, nil
}

// TransferFrom moves value from one account to another, consuming the
// allowance granted by the source account to the caller. A caller moving its
// own units does not need any allowance.
func (l *Ledger) TransferFrom(db ledger.KVStore, caller, from, to ledger.Account, value ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(caller, from, to); err != nil {
		return nil, err
	}
	if from.Equals(to) || value.IsZero() {
		return nil, nil
	}
	if caller.Equals(from) {
		return l.Transfer(db, caller, to, value)
	}

	allowance, err := l.Allowance(db, from, caller)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(value) < 0 {
		return nil, errors.Wrapf(errors.ErrInsufficientAllowance, "%s of %s allowed", value, allowance)
	}
	if err := l.requireBalance(db, from, value); err != nil {
		return nil, err
	}

	left := allowance.SaturatingSub(value)
	if err := l.allowances.SetAmount(db, allowanceKey(from, caller), left); err != nil {
		return nil, err
	}
	if err := l.move(db, from, to, value); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&ApprovalEvent{Owner: from, Spender: caller, Value: left},
		&TransferEvent{From: from, To: to, Value: value},
	}, nil
}

// Approve sets the allowance of spender to value, overwriting the previous
// one. Approving yourself is silently ignored.
func (l *Ledger) Approve(db ledger.KVStore, owner, spender ledger.Account, value ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(owner, spender); err != nil {
		return nil, err
	}
	if owner.Equals(spender) {
		return nil, nil
	}
	if err := l.allowances.SetAmount(db, allowanceKey(owner, spender), value); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&ApprovalEvent{Owner: owner, Spender: spender, Value: value},
	}, nil
}

// IncreaseAllowance raises the allowance of spender by delta. The result
// saturates at the maximum amount. A zero delta is a noop.
func (l *Ledger) IncreaseAllowance(db ledger.KVStore, owner, spender ledger.Account, delta ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(owner, spender); err != nil {
		return nil, err
	}
	if owner.Equals(spender) || delta.IsZero() {
		return nil, nil
	}
	allowance, err := l.Allowance(db, owner, spender)
	if err != nil {
		return nil, err
	}
	allowance = allowance.SaturatingAdd(delta)
	if err := l.allowances.SetAmount(db, allowanceKey(owner, spender), allowance); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&ApprovalEvent{Owner: owner, Spender: spender, Value: allowance},
	}, nil
}

// DecreaseAllowance lowers the allowance of spender by delta. A zero delta is
// a noop.
func (l *Ledger) DecreaseAllowance(db ledger.KVStore, owner, spender ledger.Account, delta ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(owner, spender); err != nil {
		return nil, err
	}
	if owner.Equals(spender) || delta.IsZero() {
		return nil, nil
	}
	allowance, err := l.Allowance(db, owner, spender)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(delta) < 0 {
		return nil, errors.Wrapf(errors.ErrInsufficientAllowance, "cannot decrease %s by %s", allowance, delta)
	}
	allowance = allowance.SaturatingSub(delta)
	if err := l.allowances.SetAmount(db, allowanceKey(owner, spender), allowance); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&ApprovalEvent{Owner: owner, Spender: spender, Value: allowance},
	}, nil
}

// Mint creates value new units credited to given account.
func (l *Ledger) Mint(db ledger.KVStore, to ledger.Account, value ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(to); err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, nil
	}
	supply, err := l.checkMint(db, value)
	if err != nil {
		return nil, err
	}
	balance, err := l.BalanceOf(db, to)
	if err != nil {
		return nil, err
	}

	if err := l.supply.SetAmount(db, supplyKey, supply); err != nil {
		return nil, err
	}
	// Bounded by the total supply.
	if err := l.balances.SetAmount(db, to, balance.SaturatingAdd(value)); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&TransferEvent{From: nil, To: to, Value: value},
	}, nil
}

// checkMint returns the total supply after minting value.
func (l *Ledger) checkMint(db ledger.ReadOnlyKVStore, value ledger.Amount) (ledger.Amount, error) {
	supply, err := l.TotalSupply(db)
	if err != nil {
		return supply, err
	}
	supply, err = supply.CheckedAdd(value)
	if err != nil {
		return supply, errors.ErrCustom.New("max supply exceeded, limited to 2^128-1")
	}
	return supply, nil
}

// Burn destroys value units owned by given account.
func (l *Ledger) Burn(db ledger.KVStore, from ledger.Account, value ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(from); err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, nil
	}
	if err := l.requireBalance(db, from, value); err != nil {
		return nil, err
	}
	if err := l.burn(db, from, value); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&TransferEvent{From: from, To: nil, Value: value},
	}, nil
}

// BurnFrom destroys value units owned by given account, consuming the
// allowance granted to the caller.
func (l *Ledger) BurnFrom(db ledger.KVStore, caller, from ledger.Account, value ledger.Amount) ([]ledger.Event, error) {
	if err := validateAccounts(caller, from); err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, nil
	}
	allowance, err := l.Allowance(db, from, caller)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(value) < 0 {
		return nil, errors.Wrapf(errors.ErrInsufficientAllowance, "%s of %s allowed", value, allowance)
	}
	if err := l.requireBalance(db, from, value); err != nil {
		return nil, err
	}

	if err := l.allowances.SetAmount(db, allowanceKey(from, caller), allowance.SaturatingSub(value)); err != nil {
		return nil, err
	}
	if err := l.burn(db, from, value); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&TransferEvent{From: from, To: nil, Value: value},
	}, nil
}

// Deposit pulls value units of the peer token from sender into the self
// account. Local state is not modified, the caller credits it once the pull
// succeeded.
func (l *Ledger) Deposit(ctx context.Context, port Port, peer, sender, self ledger.Account, value ledger.Amount) error {
	if err := validateAccounts(peer, sender, self); err != nil {
		return err
	}
	return port.TransferFrom(ctx, peer, self, sender, self, value, nil)
}

// Withdraw pushes value units of the peer token held by this ledger to given
// account. Local state is not modified, the caller must debit it before.
func (l *Ledger) Withdraw(ctx context.Context, port Port, peer, account ledger.Account, value ledger.Amount) error {
	if err := validateAccounts(peer, account); err != nil {
		return err
	}
	return port.Transfer(ctx, peer, account, value, nil)
}

func (l *Ledger) requireBalance(db ledger.ReadOnlyKVStore, owner ledger.Account, value ledger.Amount) error {
	balance, err := l.BalanceOf(db, owner)
	if err != nil {
		return err
	}
	if balance.Cmp(value) < 0 {
		return errors.Wrapf(errors.ErrInsufficientBalance, "%s of %s available", value, balance)
	}
	return nil
}

// move transfers value between two distinct accounts. The source balance
// must have been checked.
func (l *Ledger) move(db ledger.KVStore, from, to ledger.Account, value ledger.Amount) error {
	fromBalance, err := l.BalanceOf(db, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(value) < 0 {
		return errors.Wrapf(errors.ErrInsufficientBalance, "%s of %s available", value, fromBalance)
	}
	toBalance, err := l.BalanceOf(db, to)
	if err != nil {
		return err
	}

	if err := l.balances.SetAmount(db, from, fromBalance.SaturatingSub(value)); err != nil {
		return err
	}
	// Bounded by the total supply.
	return l.balances.SetAmount(db, to, toBalance.SaturatingAdd(value))
}

func (l *Ledger) burn(db ledger.KVStore, from ledger.Account, value ledger.Amount) error {
	balance, err := l.BalanceOf(db, from)
	if err != nil {
		return err
	}
	supply, err := l.TotalSupply(db)
	if err != nil {
		return err
	}
	if err := l.balances.SetAmount(db, from, balance.SaturatingSub(value)); err != nil {
		return err
	}
	return l.supply.SetAmount(db, supplyKey, supply.SaturatingSub(value))
}

func validateAccounts(accounts ...ledger.Account) error {
	for _, a := range accounts {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}
