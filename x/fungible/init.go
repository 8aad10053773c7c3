package fungible

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// GenesisAccount is used to parse the json from genesis options.
// Accounts are hex encoded, amounts are decimal strings.
type GenesisAccount struct {
	Address ledger.Account `json:"address"`
	Amount  ledger.Amount  `json:"amount"`
}

// Initializer fulfils the ledger.Initializer interface to load initial
// balances from genesis options. Balances are read from the options key
// equal to the option name.
type Initializer struct {
	Ledger *Ledger
	Option string
}

var _ ledger.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and mint it
func (i Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(i.Option, &accts); err != nil {
		return err
	}
	for n, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
		if _, err := i.Ledger.Mint(db, acct.Address, acct.Amount); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
	}
	return nil
}
