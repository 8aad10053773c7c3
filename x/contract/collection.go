package contract

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/x/fungible"
	"github.com/iov-one/ledger/x/nft"
)

// Collection is a non-fungible token contract. Only the owner may mint
// tokens and set their attributes. Tokens are burnable and enumerable.
type Collection struct {
	contract
	ledger *nft.Ledger
}

// NewCollection returns a collection contract at given address, keeping its
// state under given namespace.
func NewCollection(address ledger.Account, namespace string, opts ...Option) *Collection {
	return &Collection{
		contract: newContract(address, namespace, opts),
		ledger:   nft.NewLedger(namespace),
	}
}

// Init stores the configuration. The creator becomes the owner unless the
// configuration sets one.
func (c *Collection) Init(ctx context.Context, db ledger.CacheableKVStore, conf CollectionConfig, creator ledger.Account) error {
	return c.exec(ctx, db, "init", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		if err := creator.Validate(); err != nil {
			return nil, errors.Wrap(err, "creator")
		}
		if conf.Owner == nil {
			conf.Owner = creator
		}
		return nil, gconf.Save(db, c.pkg, &conf)
	})
}

func (c *Collection) Config(db ledger.ReadOnlyKVStore) (*CollectionConfig, error) {
	var conf CollectionConfig
	if err := gconf.Load(db, c.pkg, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// CollectionID is derived from the contract address.
func (c *Collection) CollectionID() nft.TokenID {
	return nft.CollectionID(c.address)
}

func (c *Collection) TotalSupply(db ledger.ReadOnlyKVStore) (uint64, error) {
	return c.ledger.TotalSupply(db)
}

func (c *Collection) BalanceOf(db ledger.ReadOnlyKVStore, owner ledger.Account) (uint32, error) {
	return c.ledger.BalanceOf(db, owner)
}

func (c *Collection) OwnerOf(db ledger.ReadOnlyKVStore, id nft.TokenID) (ledger.Account, error) {
	return c.ledger.OwnerOf(db, id)
}

func (c *Collection) Allowance(db ledger.ReadOnlyKVStore, owner, operator ledger.Account, id *nft.TokenID) (bool, error) {
	return c.ledger.Allowance(db, owner, operator, id)
}

func (c *Collection) OwnersTokenByIndex(db ledger.ReadOnlyKVStore, owner ledger.Account, index uint64) (nft.TokenID, error) {
	return c.ledger.OwnersTokenByIndex(db, owner, index)
}

func (c *Collection) TokenByIndex(db ledger.ReadOnlyKVStore, index uint64) (nft.TokenID, error) {
	return c.ledger.TokenByIndex(db, index)
}

func (c *Collection) GetAttribute(db ledger.ReadOnlyKVStore, id nft.TokenID, key []byte) ([]byte, error) {
	return c.ledger.GetAttribute(db, id, key)
}

func (c *Collection) Transfer(ctx context.Context, db ledger.CacheableKVStore, caller, to ledger.Account, id nft.TokenID, data []byte) error {
	return c.exec(ctx, db, "transfer", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return c.ledger.Transfer(db, caller, to, id, data)
	})
}

func (c *Collection) Approve(ctx context.Context, db ledger.CacheableKVStore, caller, operator ledger.Account, id *nft.TokenID, approved bool) error {
	return c.exec(ctx, db, "approve", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return c.ledger.Approve(db, caller, operator, id, approved)
	})
}

// Mint creates a token owned by account. Only the owner can mint.
func (c *Collection) Mint(ctx context.Context, db ledger.CacheableKVStore, caller, account ledger.Account, id nft.TokenID) error {
	return c.exec(ctx, db, "mint", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		if err := c.requireOwner(db, caller); err != nil {
			return nil, err
		}
		return c.ledger.Mint(db, account, id)
	})
}

func (c *Collection) Burn(ctx context.Context, db ledger.CacheableKVStore, caller, account ledger.Account, id nft.TokenID) error {
	return c.exec(ctx, db, "burn", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		return c.ledger.Burn(db, caller, account, id)
	})
}

// SetAttribute sets a metadata attribute of a token. Only the owner can set
// attributes.
func (c *Collection) SetAttribute(ctx context.Context, db ledger.CacheableKVStore, caller ledger.Account, id nft.TokenID, key, value []byte) error {
	return c.exec(ctx, db, "set_attribute", func(db ledger.KVStore, _ *fungible.RouterPort) ([]ledger.Event, error) {
		if err := c.requireOwner(db, caller); err != nil {
			return nil, err
		}
		return c.ledger.SetAttribute(db, id, key, value)
	})
}

func (c *Collection) requireOwner(db ledger.ReadOnlyKVStore, caller ledger.Account) error {
	conf, err := c.Config(db)
	if err != nil {
		return err
	}
	return requireOwner(conf.Owner, caller)
}
