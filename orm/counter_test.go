package orm

import (
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestCounter(t *testing.T) {
	db := store.MemStore()
	c := NewCounter("count")
	a, b := []byte("a"), []byte("b")

	for i := uint64(1); i <= 3; i++ {
		got, err := c.Inc(db, a)
		assert.Nil(t, err)
		assert.Equal(t, i, got)
	}
	_, err := c.Inc(db, b)
	assert.Nil(t, err)

	got, err := c.Dec(db, a)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), got)

	got, err = c.Value(db, b)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), got)

	// Zero counter is removed from the store.
	_, err = c.Dec(db, b)
	assert.Nil(t, err)
	has, err := db.Has(c.bucket.DBKey(b))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	_, err = c.Dec(db, b)
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestCountEncoding(t *testing.T) {
	got, err := DecodeCount(EncodeCount(1 << 40))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1<<40), got)

	got, err = DecodeCount(nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), got)

	_, err = DecodeCount([]byte{1, 2})
	assert.IsErr(t, errors.ErrDatabase, err)
}
