package ledger

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestReadOptions(t *testing.T) {
	opts := Options{
		"tokens": json.RawMessage(`{"name": "Wrapped Coin", "supply": "100"}`),
		"broken": json.RawMessage(`{"name": 1`),
	}

	var conf struct {
		Name   string `json:"name"`
		Supply Amount `json:"supply"`
	}
	assert.Nil(t, opts.ReadOptions("tokens", &conf))
	assert.Equal(t, "Wrapped Coin", conf.Name)
	assert.Equal(t, "100", conf.Supply.String())

	// Missing keys leave the destination untouched.
	assert.Nil(t, opts.ReadOptions("missing", &conf))
	assert.Equal(t, "Wrapped Coin", conf.Name)

	assert.IsErr(t, errors.ErrInput, opts.ReadOptions("broken", &conf))
}
