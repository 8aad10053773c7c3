package fungible

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestSelectors(t *testing.T) {
	assert.Equal(t, "0x54b3c76e", TransferFromSelector.String())
	assert.Equal(t, "0xdb20f9f5", TransferSelector.String())
}

func TestTransferFromArgs(t *testing.T) {
	args := TransferFromArgs{From: alice, To: bob, Value: amount(513), Data: []byte("memo")}
	raw := args.Marshal()
	if want := 2*ledger.AccountLength + ledger.AmountLength + 4; len(raw) != want {
		t.Fatalf("want %d bytes, got %d", want, len(raw))
	}
	// Value is big endian, right after both accounts.
	value := raw[2*ledger.AccountLength : 2*ledger.AccountLength+ledger.AmountLength]
	if !bytes.Equal(value[ledger.AmountLength-2:], []byte{0x02, 0x01}) {
		t.Fatalf("unexpected value encoding: %X", value)
	}

	var got TransferFromArgs
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, args, got)

	var short TransferFromArgs
	assert.IsErr(t, errors.ErrInput, short.Unmarshal(raw[:2*ledger.AccountLength+3]))
}

func TestTransferArgs(t *testing.T) {
	args := TransferArgs{To: carol, Value: ledger.MaxAmount()}
	var got TransferArgs
	assert.Nil(t, got.Unmarshal(args.Marshal()))
	assert.Equal(t, args, got)

	var short TransferArgs
	assert.IsErr(t, errors.ErrInput, short.Unmarshal(carol[:10]))
}

func TestHandleCall(t *testing.T) {
	l := NewLedger("")
	db := setup(t, l, []balance{{alice, 100}}, []allowance{{alice, bob, 30}})

	cases := map[string]struct {
		call       Call
		wantErr    *errors.Error
		wantEvents []ledger.Event
	}{
		"transfer": {
			call: Call{
				Caller:   alice,
				Selector: TransferSelector,
				Args:     TransferArgs{To: carol, Value: amount(10)}.Marshal(),
			},
			wantEvents: []ledger.Event{
				&TransferEvent{From: alice, To: carol, Value: amount(10)},
			},
		},
		"transfer from": {
			call: Call{
				Caller:   bob,
				Selector: TransferFromSelector,
				Args:     TransferFromArgs{From: alice, To: bob, Value: amount(30)}.Marshal(),
			},
			wantEvents: []ledger.Event{
				&ApprovalEvent{Owner: alice, Spender: bob, Value: amount(0)},
				&TransferEvent{From: alice, To: bob, Value: amount(30)},
			},
		},
		"transfer from without allowance": {
			call: Call{
				Caller:   carol,
				Selector: TransferFromSelector,
				Args:     TransferFromArgs{From: alice, To: bob, Value: amount(1)}.Marshal(),
			},
			wantErr: errors.ErrInsufficientAllowance,
		},
		"unknown selector": {
			call: Call{
				Caller:   alice,
				Selector: NewSelector("PSP22::approve"),
				Args:     TransferArgs{To: carol, Value: amount(10)}.Marshal(),
			},
			wantErr: errors.ErrInput,
		},
		"malformed arguments": {
			call: Call{
				Caller:   alice,
				Selector: TransferSelector,
				Args:     []byte{1, 2, 3},
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cache := db.CacheWrap()
			defer cache.Discard()

			events, err := HandleCall(l, cache, tc.call)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			assert.Equal(t, tc.wantEvents, events)
		})
	}
}

func TestRouter(t *testing.T) {
	token := ledgertest.Account("token")

	router := NewRouter()
	l := NewLedger("token")
	router.Register(token, NewLedgerHandler(l))

	assert.Panics(t, func() { router.Register(token, NewLedgerHandler(l)) })
	assert.Panics(t, func() { router.Register(ledger.Account("x"), NewLedgerHandler(l)) })

	db := setup(t, l, []balance{{alice, 100}}, []allowance{{alice, bob, 50}})

	// A port owned by bob spends alice's allowance.
	port := NewRouterPort(router, db, bob)
	ctx := context.Background()
	assert.Nil(t, port.TransferFrom(ctx, token, bob, alice, bob, amount(20), nil))
	assert.Nil(t, port.Transfer(ctx, token, carol, amount(5), []byte("data is ignored")))
	assertBalances(t, l, db, []balance{{alice, 80}, {bob, 15}, {carol, 5}})

	assert.Equal(t, []Emitted{
		{Emitter: token, Event: &ApprovalEvent{Owner: alice, Spender: bob, Value: amount(30)}},
		{Emitter: token, Event: &TransferEvent{From: alice, To: bob, Value: amount(20)}},
		{Emitter: token, Event: &TransferEvent{From: bob, To: carol, Value: amount(5)}},
	}, port.Emitted())

	// Failed calls do not emit.
	err := port.Transfer(ctx, token, carol, amount(500), nil)
	assert.IsErr(t, errors.ErrInsufficientBalance, err)
	assert.Equal(t, 3, len(port.Emitted()))

	err = port.Transfer(ctx, ledgertest.Account("missing"), carol, amount(1), nil)
	assert.IsErr(t, errors.ErrNotFound, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = port.Transfer(cancelled, token, carol, amount(1), nil)
	assert.IsErr(t, errors.ErrState, err)
	assertBalances(t, l, db, []balance{{bob, 15}, {carol, 5}})
}

func TestRouterPortSharesTheCallerStore(t *testing.T) {
	token := ledgertest.Account("token")
	router := NewRouter()
	l := NewLedger("token")
	router.Register(token, NewLedgerHandler(l))

	base := setup(t, l, []balance{{alice, 10}}, nil)
	db := store.NewRecordingStore(base).(ledger.CacheableKVStore)

	cache := db.CacheWrap()
	port := NewRouterPort(router, cache, alice)
	assert.Nil(t, port.Transfer(context.Background(), token, bob, amount(10), nil))
	assertBalances(t, l, cache, []balance{{alice, 0}, {bob, 10}})

	// Discarding the outer operation drops the nested writes.
	cache.Discard()
	ledgertest.AssertNoWrites(t, db.(store.Recorder))
	assertBalances(t, l, db, []balance{{alice, 10}, {bob, 0}})
}
