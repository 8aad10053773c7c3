package contract

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/x/fungible"
)

// Token is a fungible token contract. On top of the ledger it implements an
// owner restricted mint, an optional supply cap, pausing and, when an
// underlying token is configured, wrapping.
//
// Every mutating method takes the account of the caller, as resolved by the
// host.
type Token struct {
	contract
	ledger *fungible.Ledger
}

var _ fungible.Handler = (*Token)(nil)
var _ ledger.Initializer = (*Token)(nil)

// NewToken returns a token contract at given address, keeping its state under
// given namespace.
func NewToken(address ledger.Account, namespace string, opts ...Option) *Token {
	return &Token{
		contract: newContract(address, namespace, opts),
		ledger:   fungible.NewLedger(namespace),
	}
}

// Init stores the configuration and credits the initial supply to the
// creator. The creator becomes the owner unless the configuration sets one.
func (t *Token) Init(ctx context.Context, db ledger.CacheableKVStore, conf TokenConfig, supply ledger.Amount, creator ledger.Account) error {
	return t.exec(ctx, db, "init", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		if err := creator.Validate(); err != nil {
			return nil, errors.Wrap(err, "creator")
		}
		if conf.Owner == nil {
			conf.Owner = creator
		}
		if err := t.checkCap(db, &conf, supply); err != nil {
			return nil, err
		}
		if err := gconf.Save(db, t.pkg, &conf); err != nil {
			return nil, err
		}
		return t.ledger.Init(db, supply, creator)
	})
}

// FromGenesis initializes the token from genesis options: the configuration
// is read from opts["conf"][namespace] and the initial balances from
// opts[namespace].
func (t *Token) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var conf TokenConfig
	if err := gconf.InitConfig(db, opts, t.pkg, &conf); err != nil {
		return err
	}
	balances := fungible.Initializer{Ledger: t.ledger, Option: t.pkg}
	if err := balances.FromGenesis(opts, db); err != nil {
		return err
	}
	return t.checkCap(db, &conf, ledger.Amount{})
}

// Config returns the current configuration.
func (t *Token) Config(db ledger.ReadOnlyKVStore) (*TokenConfig, error) {
	var conf TokenConfig
	if err := gconf.Load(db, t.pkg, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (t *Token) TotalSupply(db ledger.ReadOnlyKVStore) (ledger.Amount, error) {
	return t.ledger.TotalSupply(db)
}

func (t *Token) BalanceOf(db ledger.ReadOnlyKVStore, owner ledger.Account) (ledger.Amount, error) {
	return t.ledger.BalanceOf(db, owner)
}

func (t *Token) Allowance(db ledger.ReadOnlyKVStore, owner, spender ledger.Account) (ledger.Amount, error) {
	return t.ledger.Allowance(db, owner, spender)
}

// Transfer moves value units from the caller. Data is not interpreted.
func (t *Token) Transfer(ctx context.Context, db ledger.CacheableKVStore, caller, to ledger.Account, value ledger.Amount, data []byte) error {
	return t.exec(ctx, db, "transfer", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		if err := t.requireActive(db); err != nil {
			return nil, err
		}
		return t.ledger.Transfer(db, caller, to, value)
	})
}

func (t *Token) TransferFrom(ctx context.Context, db ledger.CacheableKVStore, caller, from, to ledger.Account, value ledger.Amount, data []byte) error {
	return t.exec(ctx, db, "transfer_from", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		if err := t.requireActive(db); err != nil {
			return nil, err
		}
		return t.ledger.TransferFrom(db, caller, from, to, value)
	})
}

func (t *Token) Approve(ctx context.Context, db ledger.CacheableKVStore, caller, spender ledger.Account, value ledger.Amount) error {
	return t.exec(ctx, db, "approve", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return t.ledger.Approve(db, caller, spender, value)
	})
}

func (t *Token) IncreaseAllowance(ctx context.Context, db ledger.CacheableKVStore, caller, spender ledger.Account, delta ledger.Amount) error {
	return t.exec(ctx, db, "increase_allowance", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return t.ledger.IncreaseAllowance(db, caller, spender, delta)
	})
}

func (t *Token) DecreaseAllowance(ctx context.Context, db ledger.CacheableKVStore, caller, spender ledger.Account, delta ledger.Amount) error {
	return t.exec(ctx, db, "decrease_allowance", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return t.ledger.DecreaseAllowance(db, caller, spender, delta)
	})
}

// Mint creates new units. Only the owner can mint and the supply cap is
// enforced.
func (t *Token) Mint(ctx context.Context, db ledger.CacheableKVStore, caller, to ledger.Account, value ledger.Amount) error {
	return t.exec(ctx, db, "mint", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		conf, err := t.Config(db)
		if err != nil {
			return nil, err
		}
		if err := requireOwner(conf.Owner, caller); err != nil {
			return nil, err
		}
		if conf.Paused {
			return nil, errors.Wrap(errors.ErrState, "token is paused")
		}
		if err := t.checkCap(db, conf, value); err != nil {
			return nil, err
		}
		return t.ledger.Mint(db, to, value)
	})
}

// Burn destroys units of the caller.
func (t *Token) Burn(ctx context.Context, db ledger.CacheableKVStore, caller ledger.Account, value ledger.Amount) error {
	return t.exec(ctx, db, "burn", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return t.ledger.Burn(db, caller, value)
	})
}

// BurnFrom destroys units of another account, consuming the allowance of the
// caller.
func (t *Token) BurnFrom(ctx context.Context, db ledger.CacheableKVStore, caller, from ledger.Account, value ledger.Amount) error {
	return t.exec(ctx, db, "burn_from", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return t.ledger.BurnFrom(db, caller, from, value)
	})
}

// DepositFor wraps value units of the underlying token of the caller, minting
// them to account. The caller must have approved this contract on the
// underlying token.
func (t *Token) DepositFor(ctx context.Context, db ledger.CacheableKVStore, caller, account ledger.Account, value ledger.Amount) error {
	return t.exec(ctx, db, "deposit_for", func(db ledger.KVStore, port *fungible.RouterPort) ([]ledger.Event, error) {
		w, conf, err := t.wrapper(db, port)
		if err != nil {
			return nil, err
		}
		if conf.Paused {
			return nil, errors.Wrap(errors.ErrState, "token is paused")
		}
		if err := t.checkCap(db, conf, value); err != nil {
			return nil, err
		}
		return w.DepositFor(ctx, db, port, caller, account, value)
	})
}

// WithdrawTo unwraps value units of the caller, sending the underlying units
// to account.
func (t *Token) WithdrawTo(ctx context.Context, db ledger.CacheableKVStore, caller, account ledger.Account, value ledger.Amount) error {
	return t.exec(ctx, db, "withdraw_to", func(db ledger.KVStore, port *fungible.RouterPort) ([]ledger.Event, error) {
		w, _, err := t.wrapper(db, port)
		if err != nil {
			return nil, err
		}
		return w.WithdrawTo(ctx, db, port, caller, account, value)
	})
}

func (t *Token) wrapper(db ledger.ReadOnlyKVStore, port *fungible.RouterPort) (*fungible.Wrapper, *TokenConfig, error) {
	conf, err := t.Config(db)
	if err != nil {
		return nil, nil, err
	}
	if conf.Underlying == nil {
		return nil, nil, errors.Wrap(errors.ErrState, "not a wrapper")
	}
	if port == nil {
		return nil, nil, errors.Wrap(errors.ErrState, "no router")
	}
	return fungible.NewWrapper(t.ledger, conf.Underlying, t.address), conf, nil
}

// Pause stops transfers and minting until Unpause is called.
func (t *Token) Pause(ctx context.Context, db ledger.CacheableKVStore, caller ledger.Account) error {
	return t.exec(ctx, db, "pause", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return nil, t.updateConfig(db, caller, func(c *TokenConfig) { c.Paused = true })
	})
}

func (t *Token) Unpause(ctx context.Context, db ledger.CacheableKVStore, caller ledger.Account) error {
	return t.exec(ctx, db, "unpause", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return nil, t.updateConfig(db, caller, func(c *TokenConfig) { c.Paused = false })
	})
}

// TransferOwnership hands the owner privileges over to another account.
func (t *Token) TransferOwnership(ctx context.Context, db ledger.CacheableKVStore, caller, owner ledger.Account) error {
	return t.exec(ctx, db, "transfer_ownership", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		if err := owner.Validate(); err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		return nil, t.updateConfig(db, caller, func(c *TokenConfig) { c.Owner = owner })
	})
}

// RenounceOwnership leaves the token without an owner. Nobody can mint or
// pause afterwards.
func (t *Token) RenounceOwnership(ctx context.Context, db ledger.CacheableKVStore, caller ledger.Account) error {
	return t.exec(ctx, db, "renounce_ownership", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return nil, t.updateConfig(db, caller, func(c *TokenConfig) { c.Owner = nil })
	})
}

func (t *Token) updateConfig(db ledger.KVStore, caller ledger.Account, update func(*TokenConfig)) error {
	conf, err := t.Config(db)
	if err != nil {
		return err
	}
	if err := requireOwner(conf.Owner, caller); err != nil {
		return err
	}
	update(conf)
	return gconf.Save(db, t.pkg, conf)
}

// Handle serves cross-ledger calls, so that the token can be wrapped by
// another contract. The pause applies.
func (t *Token) Handle(ctx context.Context, db ledger.CacheableKVStore, call fungible.Call) ([]ledger.Event, error) {
	if err := t.requireActive(db); err != nil {
		return nil, err
	}
	return fungible.HandleCall(t.ledger, db, call)
}

func (t *Token) requireActive(db ledger.ReadOnlyKVStore) error {
	conf, err := t.Config(db)
	if err != nil {
		return err
	}
	if conf.Paused {
		return errors.Wrap(errors.ErrState, "token is paused")
	}
	return nil
}

// checkCap returns an error if minting value would exceed the configured cap.
func (t *Token) checkCap(db ledger.ReadOnlyKVStore, conf *TokenConfig, value ledger.Amount) error {
	limit, err := conf.MaxSupply()
	if err != nil {
		return err
	}
	supply, err := t.ledger.TotalSupply(db)
	if err != nil {
		return err
	}
	supply, err = supply.CheckedAdd(value)
	if err != nil {
		return errors.ErrCustom.New("max supply exceeded, limited to 2^128-1")
	}
	if supply.Cmp(limit) > 0 {
		return errors.ErrCustom.New("max cap exceeded")
	}
	return nil
}

func requireOwner(owner, caller ledger.Account) error {
	if owner == nil || !owner.Equals(caller) {
		return errors.Wrap(errors.ErrUnauthorized, "not an owner")
	}
	return nil
}
