package orm

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Counter maintains a set of unsigned counters within a bucket, one per key.
// A counter that drops to zero is deleted.
type Counter struct {
	bucket Bucket
}

// NewCounter returns a counter set stored in a bucket of given name.
func NewCounter(name string) Counter {
	return Counter{bucket: NewBucket(name)}
}

// Value returns the current value of the counter, zero if never set.
func (c Counter) Value(db ledger.ReadOnlyKVStore, key []byte) (uint64, error) {
	raw, err := c.bucket.Get(db, key)
	if err != nil {
		return 0, err
	}
	return DecodeCount(raw)
}

// Inc increments the counter and returns its new value.
func (c Counter) Inc(db ledger.KVStore, key []byte) (uint64, error) {
	val, err := c.Value(db, key)
	if err != nil {
		return 0, err
	}
	if val == ^uint64(0) {
		return 0, errors.Wrapf(errors.ErrOverflow, "%s counter", c.bucket.name)
	}
	val++
	return val, c.set(db, key, val)
}

// Dec decrements the counter and returns its new value. Decrementing a zero
// counter is a coding error.
func (c Counter) Dec(db ledger.KVStore, key []byte) (uint64, error) {
	val, err := c.Value(db, key)
	if err != nil {
		return 0, err
	}
	if val == 0 {
		return 0, errors.Wrapf(errors.ErrHuman, "%s counter below zero", c.bucket.name)
	}
	val--
	return val, c.set(db, key, val)
}

func (c Counter) set(db ledger.KVStore, key []byte, val uint64) error {
	if val == 0 {
		return c.bucket.Delete(db, key)
	}
	return c.bucket.Set(db, key, EncodeCount(val))
}

// EncodeCount returns the 8 byte big endian representation of a count.
// It is used both to store counters and as a position key in indexes.
func EncodeCount(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}

// DecodeCount is the reverse of EncodeCount. Nil decodes to zero.
func DecodeCount(raw []byte) (uint64, error) {
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrDatabase, "corrupted count %X", raw)
	}
	return binary.BigEndian.Uint64(raw), nil
}
