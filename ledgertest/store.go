package ledgertest

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/store"
)

// RecordingStore returns an in-memory store together with the recorder of
// all writes performed on it.
func RecordingStore() (ledger.CacheableKVStore, store.Recorder) {
	db := store.NewRecordingStore(store.MemStore())
	return db.(ledger.CacheableKVStore), db.(store.Recorder)
}

// AssertNoWrites fails the test if any write was recorded.
func AssertNoWrites(t testing.TB, rec store.Recorder) {
	t.Helper()
	if changes := rec.KVPairs(); len(changes) != 0 {
		for k, v := range changes {
			t.Logf("\t%q => %X", k, v)
		}
		t.Fatalf("want no writes, got %d", len(changes))
	}
}
