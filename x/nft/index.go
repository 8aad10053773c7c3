package nft

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// BalanceIndex keeps an ordered list of tokens per owner, plus a global list
// of all tokens (the nil owner).
//
// Insert appends to the list. Remove moves the last element into the place of
// the removed one, so positions are not stable across removals and must not
// be cached.
type BalanceIndex struct {
	counts    orm.Counter
	items     orm.Bucket
	positions orm.Bucket
}

// NewBalanceIndex returns an index stored under given namespace.
func NewBalanceIndex(namespace string) *BalanceIndex {
	return &BalanceIndex{
		counts:    orm.NewCounter(bucketName(namespace, "index_count")),
		items:     orm.NewBucket(bucketName(namespace, "index_item")),
		positions: orm.NewBucket(bucketName(namespace, "index_pos")),
	}
}

// ownerKey is 0x00 for the global list and 0x01 followed by the account
// otherwise.
func ownerKey(owner ledger.Account) []byte {
	if owner == nil {
		return []byte{0}
	}
	return append([]byte{1}, owner...)
}

func (b *BalanceIndex) itemKey(owner ledger.Account, pos uint64) []byte {
	return orm.CompositeKey(ownerKey(owner), orm.EncodeCount(pos))
}

func (b *BalanceIndex) positionKey(owner ledger.Account, id TokenID) []byte {
	return orm.CompositeKey(ownerKey(owner), id.Key())
}

// Count returns the length of the list of given owner.
func (b *BalanceIndex) Count(db ledger.ReadOnlyKVStore, owner ledger.Account) (uint64, error) {
	return b.counts.Value(db, ownerKey(owner))
}

// At returns the token at given position of the list.
func (b *BalanceIndex) At(db ledger.ReadOnlyKVStore, owner ledger.Account, index uint64) (TokenID, error) {
	raw, err := b.items.Get(db, b.itemKey(owner, index))
	if err != nil {
		return TokenID{}, err
	}
	if raw == nil {
		return TokenID{}, errors.Wrapf(errors.ErrTokenNotExists, "no token at index %d", index)
	}
	id, err := TokenIDFromKey(raw)
	if err != nil {
		return TokenID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return id, nil
}

// All returns the whole list of given owner.
func (b *BalanceIndex) All(db ledger.ReadOnlyKVStore, owner ledger.Account) ([]TokenID, error) {
	n, err := b.Count(db, owner)
	if err != nil {
		return nil, err
	}
	ids := make([]TokenID, 0, n)
	for i := uint64(0); i < n; i++ {
		id, err := b.At(db, owner, i)
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Insert appends the token to the list of given owner.
func (b *BalanceIndex) Insert(db ledger.KVStore, owner ledger.Account, id TokenID) error {
	posKey := b.positionKey(owner, id)
	if ok, err := b.positions.Has(db, posKey); err != nil {
		return err
	} else if ok {
		return errors.Wrapf(errors.ErrHuman, "%s already indexed", id)
	}
	n, err := b.Count(db, owner)
	if err != nil {
		return err
	}
	if err := b.items.Set(db, b.itemKey(owner, n), id.Key()); err != nil {
		return err
	}
	if err := b.positions.Set(db, posKey, orm.EncodeCount(n)); err != nil {
		return err
	}
	_, err = b.counts.Inc(db, ownerKey(owner))
	return err
}

// Remove deletes the token from the list of given owner, replacing it with
// the last element of the list.
func (b *BalanceIndex) Remove(db ledger.KVStore, owner ledger.Account, id TokenID) error {
	posKey := b.positionKey(owner, id)
	raw, err := b.positions.Get(db, posKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrTokenNotExists, "%s not indexed", id)
	}
	pos, err := orm.DecodeCount(raw)
	if err != nil {
		return err
	}
	n, err := b.Count(db, owner)
	if err != nil {
		return err
	}
	if pos >= n {
		return errors.Wrapf(errors.ErrDatabase, "%s indexed at %d of %d", id, pos, n)
	}

	last := n - 1
	if pos != last {
		moved, err := b.At(db, owner, last)
		if err != nil {
			return err
		}
		if err := b.items.Set(db, b.itemKey(owner, pos), moved.Key()); err != nil {
			return err
		}
		if err := b.positions.Set(db, b.positionKey(owner, moved), orm.EncodeCount(pos)); err != nil {
			return err
		}
	}
	if err := b.items.Delete(db, b.itemKey(owner, last)); err != nil {
		return err
	}
	if err := b.positions.Delete(db, posKey); err != nil {
		return err
	}
	_, err = b.counts.Dec(db, ownerKey(owner))
	return err
}
