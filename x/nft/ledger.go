package nft

import (
	"math"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Ledger keeps ownership, approvals and enumeration of one token collection.
//
// Invariant: the total supply equals the number of owned tokens and the
// length of the global list. Every owned token is listed exactly once in the
// list of its owner.
type Ledger struct {
	owners     orm.Bucket
	approvals  orm.Bucket
	index      *BalanceIndex
	attributes *AttributeStore
}

// NewLedger returns a ledger keeping its state under given namespace. Empty
// namespace is allowed for a store holding a single collection.
func NewLedger(namespace string) *Ledger {
	return &Ledger{
		owners:     orm.NewBucket(bucketName(namespace, "owner")),
		approvals:  orm.NewBucket(bucketName(namespace, "approval")),
		index:      NewBalanceIndex(namespace),
		attributes: NewAttributeStore(namespace),
	}
}

func bucketName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "/" + name
}

var approved = []byte{1}

// approvalKey is owner, operator and either 0x00 for an approval of all
// tokens or 0x01 followed by the token id.
func approvalKey(owner, operator ledger.Account, id *TokenID) []byte {
	if id == nil {
		return orm.CompositeKey(owner, operator, []byte{0})
	}
	return orm.CompositeKey(owner, operator, []byte{1}, id.Key())
}

// CollectionID returns the identifier of a collection managed by the contract
// at given account.
func CollectionID(contract ledger.Account) TokenID {
	return Bytes(contract)
}

// TotalSupply returns the number of existing tokens.
func (l *Ledger) TotalSupply(db ledger.ReadOnlyKVStore) (uint64, error) {
	return l.index.Count(db, nil)
}

// BalanceOf returns the number of tokens owned by given account.
func (l *Ledger) BalanceOf(db ledger.ReadOnlyKVStore, owner ledger.Account) (uint32, error) {
	if err := owner.Validate(); err != nil {
		return 0, err
	}
	n, err := l.index.Count(db, owner)
	if err != nil {
		return 0, err
	}
	if n > math.MaxUint32 {
		return math.MaxUint32, nil
	}
	return uint32(n), nil
}

// OwnerOf returns the owner of given token or nil if it does not exist.
func (l *Ledger) OwnerOf(db ledger.ReadOnlyKVStore, id TokenID) (ledger.Account, error) {
	raw, err := l.owners.Get(db, id.Key())
	if err != nil || raw == nil {
		return nil, err
	}
	return ledger.Account(raw), nil
}

// Allowance returns true if the operator may act on behalf of owner. A nil id
// asks for an approval covering all tokens. Given an id, either that or an
// approval for the single token is enough.
func (l *Ledger) Allowance(db ledger.ReadOnlyKVStore, owner, operator ledger.Account, id *TokenID) (bool, error) {
	ok, err := l.approvals.Has(db, approvalKey(owner, operator, nil))
	if err != nil || ok || id == nil {
		return ok, err
	}
	return l.approvals.Has(db, approvalKey(owner, operator, id))
}

// Approve grants or revokes the operator the right to transfer tokens of the
// caller. Without an id the approval covers all tokens of the caller.
//
// Given an id, the approval is registered for the owner of the token, which
// must be the caller or must have approved the caller for all tokens.
func (l *Ledger) Approve(db ledger.KVStore, caller, operator ledger.Account, id *TokenID, approve bool) ([]ledger.Event, error) {
	if err := validateAccounts(caller, operator); err != nil {
		return nil, err
	}

	owner := caller
	if id != nil {
		tokenOwner, err := l.OwnerOf(db, *id)
		if err != nil {
			return nil, err
		}
		if tokenOwner == nil {
			return nil, errors.Wrapf(errors.ErrTokenNotExists, "%s", id)
		}
		if approve && tokenOwner.Equals(operator) {
			return nil, errors.Wrap(errors.ErrSelfApprove, "operator owns the token")
		}
		if !tokenOwner.Equals(caller) {
			ok, err := l.Allowance(db, tokenOwner, caller, nil)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.Wrapf(errors.ErrNotApproved, "%s", id)
			}
		}
		if !approve {
			ok, err := l.Allowance(db, tokenOwner, operator, nil)
			if err != nil {
				return nil, err
			}
			if ok {
				return nil, errors.ErrCustom.New("cannot revoke approval for a single token while the operator holds approval for all tokens")
			}
		}
		owner = tokenOwner
	}

	key := approvalKey(owner, operator, id)
	var err error
	if approve {
		err = l.approvals.Set(db, key, approved)
	} else {
		err = l.approvals.Delete(db, key)
	}
	if err != nil {
		return nil, err
	}
	return []ledger.Event{
		&ApprovalEvent{Owner: owner, Operator: operator, ID: id, Approved: approve},
	}, nil
}

// Transfer moves the token to given account. The caller must be the owner or
// must be approved by the owner for the token. Data is not interpreted.
//
// A single token approval of the caller is consumed.
func (l *Ledger) Transfer(db ledger.KVStore, caller, to ledger.Account, id TokenID, data []byte) ([]ledger.Event, error) {
	if err := validateAccounts(caller, to); err != nil {
		return nil, err
	}
	owner, err := l.OwnerOf(db, id)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, errors.Wrapf(errors.ErrTokenNotExists, "%s", id)
	}
	if owner.Equals(to) {
		return nil, nil
	}
	if !owner.Equals(caller) {
		ok, err := l.Allowance(db, owner, caller, &id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(errors.ErrNotApproved, "%s", id)
		}
	}

	if err := l.index.Remove(db, owner, id); err != nil {
		return nil, err
	}
	if err := l.approvals.Delete(db, approvalKey(owner, caller, &id)); err != nil {
		return nil, err
	}
	if err := l.owners.Set(db, id.Key(), to); err != nil {
		return nil, err
	}
	if err := l.index.Insert(db, to, id); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&TransferEvent{From: owner, To: to, ID: id},
	}, nil
}

// Mint creates a new token owned by given account.
func (l *Ledger) Mint(db ledger.KVStore, account ledger.Account, id TokenID) ([]ledger.Event, error) {
	if err := validateAccounts(account); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	owner, err := l.OwnerOf(db, id)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		return nil, errors.Wrapf(errors.ErrTokenExists, "%s", id)
	}

	if err := l.index.Insert(db, account, id); err != nil {
		return nil, err
	}
	if err := l.index.Insert(db, nil, id); err != nil {
		return nil, err
	}
	if err := l.owners.Set(db, id.Key(), account); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&TransferEvent{From: nil, To: account, ID: id},
	}, nil
}

// Burn destroys a token owned by given account. The caller must be the
// account or must be approved by it for all tokens. An approval for the
// single token is not enough.
func (l *Ledger) Burn(db ledger.KVStore, caller, account ledger.Account, id TokenID) ([]ledger.Event, error) {
	if err := validateAccounts(caller, account); err != nil {
		return nil, err
	}
	owner, err := l.OwnerOf(db, id)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, errors.Wrapf(errors.ErrTokenNotExists, "%s", id)
	}
	if !account.Equals(caller) {
		ok, err := l.Allowance(db, account, caller, nil)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(errors.ErrNotApproved, "%s", id)
		}
	}
	if !owner.Equals(account) {
		return nil, errors.Wrapf(errors.ErrNotApproved, "%s is not owned by %s", id, account)
	}

	if err := l.index.Remove(db, account, id); err != nil {
		return nil, err
	}
	if err := l.index.Remove(db, nil, id); err != nil {
		return nil, err
	}
	if err := l.owners.Delete(db, id.Key()); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&TransferEvent{From: account, To: nil, ID: id},
	}, nil
}

// OwnersTokenByIndex returns the token at given position of the owner's list.
func (l *Ledger) OwnersTokenByIndex(db ledger.ReadOnlyKVStore, owner ledger.Account, index uint64) (TokenID, error) {
	if err := owner.Validate(); err != nil {
		return TokenID{}, err
	}
	return l.index.At(db, owner, index)
}

// TokenByIndex returns the token at given position of the list of all tokens.
func (l *Ledger) TokenByIndex(db ledger.ReadOnlyKVStore, index uint64) (TokenID, error) {
	return l.index.At(db, nil, index)
}

// TokensOf returns all tokens of given owner in index order.
func (l *Ledger) TokensOf(db ledger.ReadOnlyKVStore, owner ledger.Account) ([]TokenID, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return l.index.All(db, owner)
}

// GetAttribute returns the attribute value of a token, nil if not set.
func (l *Ledger) GetAttribute(db ledger.ReadOnlyKVStore, id TokenID, key []byte) ([]byte, error) {
	return l.attributes.Get(db, id, key)
}

// SetAttribute sets the attribute value of a token.
func (l *Ledger) SetAttribute(db ledger.KVStore, id TokenID, key, value []byte) ([]ledger.Event, error) {
	return l.attributes.Set(db, id, key, value)
}

func validateAccounts(accounts ...ledger.Account) error {
	for _, a := range accounts {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}
