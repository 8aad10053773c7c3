/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one kind of value.
* Absent keys read as the zero value, zero values are never stored.
* There is no iteration, enumerations are kept as explicit indexes
  (see Counter).
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var (
	// Bucket names may be namespaced with a slash, so that many ledgers
	// can share one database, ie. "wrapped/balance".
	isBucketName = regexp.MustCompile(`^[a-z0-9_]{1,24}(/[a-z0-9_]{3,16})?$`).MatchString
)

// Bucket is a prefixed subspace of the DB.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data. It panics if the name is not
// valid, buckets are declared during the program startup only.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name this bucket was created with.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get returns the value stored under given key or nil.
func (b Bucket) Get(db ledger.ReadOnlyKVStore, key []byte) ([]byte, error) {
	val, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "%s get: %s", b.name, err)
	}
	return val, nil
}

// Has returns true if a value is stored under given key.
func (b Bucket) Has(db ledger.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "%s has: %s", b.name, err)
	}
	return ok, nil
}

// Set stores the value under given key. An empty value deletes the key, so
// that the bucket never holds an entry that reads as the zero value.
func (b Bucket) Set(db ledger.KVStore, key, value []byte) error {
	if len(value) == 0 {
		return b.Delete(db, key)
	}
	if err := db.Set(b.DBKey(key), value); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "%s set: %s", b.name, err)
	}
	return nil
}

// Delete removes the key. Deleting a missing key is a noop.
func (b Bucket) Delete(db ledger.KVStore, key []byte) error {
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "%s delete: %s", b.name, err)
	}
	return nil
}

// GetAmount returns the amount stored under given key. Absent key is zero.
func (b Bucket) GetAmount(db ledger.ReadOnlyKVStore, key []byte) (ledger.Amount, error) {
	raw, err := b.Get(db, key)
	if err != nil || raw == nil {
		return ledger.Amount{}, err
	}
	amount, err := ledger.AmountFromBytes(raw)
	if err != nil {
		return ledger.Amount{}, errors.Wrapf(errors.ErrDatabase, "%s: corrupted amount %X", b.name, raw)
	}
	return amount, nil
}

// SetAmount stores given amount, deleting the entry when it is zero.
func (b Bucket) SetAmount(db ledger.KVStore, key []byte, amount ledger.Amount) error {
	if amount.IsZero() {
		return b.Delete(db, key)
	}
	return b.Set(db, key, amount.Bytes())
}

// CompositeKey joins given parts into a single key. Parts are concatenated
// as they are, so all but the last one must be of a fixed size.
func CompositeKey(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
