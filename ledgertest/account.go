// Package ledgertest provides helpers shared by the ledger tests.
package ledgertest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/ledger"
)

// Account returns a deterministic account derived from given name, so that
// test failures print the same account between runs.
func Account(name string) ledger.Account {
	return ledger.NewAccount([]byte(name))
}

// RandomAccount returns a valid account filled with random bytes.
func RandomAccount(t testing.TB) ledger.Account {
	t.Helper()
	acc := make(ledger.Account, ledger.AccountLength)
	if _, err := rand.Read(acc); err != nil {
		t.Fatalf("cannot read random data: %s", err)
	}
	return acc
}

// ParseAccount takes an account in a human readable format and returns
// its binary representation.
func ParseAccount(t testing.TB, enc string) ledger.Account {
	t.Helper()
	acc, err := ledger.ParseAccount(enc)
	if err != nil {
		t.Fatalf("cannot parse %q account: %s", enc, err)
	}
	return acc
}
