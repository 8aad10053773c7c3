package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingStore(t *testing.T) {
	db := NewRecordingStore(MemStore())
	rec := db.(Recorder)

	require.NoError(t, db.Set([]byte("direct"), []byte("1")))
	require.NoError(t, db.Delete([]byte("gone")))
	assert.Equal(t, map[string][]byte{
		"direct": []byte("1"),
		"gone":   nil,
	}, rec.KVPairs())

	cacheable, ok := db.(CacheableKVStore)
	require.True(t, ok, "cacheable base must stay cacheable")

	// Discarded cache writes are never recorded.
	discarded := cacheable.CacheWrap()
	require.NoError(t, discarded.Set([]byte("discarded"), []byte("2")))
	discarded.Discard()
	assert.Len(t, rec.KVPairs(), 2)

	written := cacheable.CacheWrap()
	require.NoError(t, written.Set([]byte("written"), []byte("3")))
	assert.Len(t, rec.KVPairs(), 2)
	require.NoError(t, written.Write())
	assert.Equal(t, []byte("3"), rec.KVPairs()["written"])

	val, err := db.Get([]byte("written"))
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)
}

func TestRecordingPlainStore(t *testing.T) {
	db := NewRecordingStore(EmptyKVStore{})
	_, cacheable := db.(CacheableKVStore)
	assert.False(t, cacheable)

	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	assert.Equal(t, []byte("v"), db.(Recorder).KVPairs()["k"])
}
