package nft

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/orm"
)

// AttributeStore keeps arbitrary metadata of tokens, as byte values under
// byte keys. Tokens are not required to exist.
type AttributeStore struct {
	bucket orm.Bucket
}

// NewAttributeStore returns a store kept under given namespace.
func NewAttributeStore(namespace string) *AttributeStore {
	return &AttributeStore{
		bucket: orm.NewBucket(bucketName(namespace, "attribute")),
	}
}

// Stored values carry a presence marker, so that an empty value can be told
// apart from a missing one.
const attributeMarker = 0x01

// Get returns the value of given attribute or nil if it was never set. An
// attribute set to an empty value is returned as an empty, non nil slice.
func (s *AttributeStore) Get(db ledger.ReadOnlyKVStore, id TokenID, key []byte) ([]byte, error) {
	raw, err := s.bucket.Get(db, orm.CompositeKey(id.prefixedKey(), key))
	if err != nil || raw == nil {
		return nil, err
	}
	return raw[1:], nil
}

// Set overwrites the value of given attribute.
func (s *AttributeStore) Set(db ledger.KVStore, id TokenID, key, value []byte) ([]ledger.Event, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, 1, 1+len(value))
	raw[0] = attributeMarker
	raw = append(raw, value...)
	if err := s.bucket.Set(db, orm.CompositeKey(id.prefixedKey(), key), raw); err != nil {
		return nil, err
	}
	return []ledger.Event{
		&AttributeSetEvent{ID: id, Key: key, Data: value},
	}, nil
}
