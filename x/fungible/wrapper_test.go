package fungible

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/mock"
)

type mockPort struct {
	mock.Mock
}

var _ Port = (*mockPort)(nil)

func (m *mockPort) TransferFrom(ctx context.Context, peer, spender, from, to ledger.Account, value ledger.Amount, data []byte) error {
	args := m.Called(ctx, peer, spender, from, to, value, data)
	return args.Error(0)
}

func (m *mockPort) Transfer(ctx context.Context, peer, to ledger.Account, value ledger.Amount, data []byte) error {
	args := m.Called(ctx, peer, to, value, data)
	return args.Error(0)
}

func TestWrapperDepositFor(t *testing.T) {
	var (
		underlying = ledgertest.Account("underlying")
		self       = ledgertest.Account("wrapper")
		ctx        = context.Background()
	)

	l := NewLedger("wrapped")
	w := NewWrapper(l, underlying, self)
	assert.Equal(t, underlying, w.Underlying())
	db := store.MemStore()

	port := &mockPort{}
	port.On("TransferFrom", ctx, underlying, self, alice, self, amount(40), []byte(nil)).
		Run(func(mock.Arguments) {
			// The pull happens before anything is minted.
			assertSupply(t, l, db, 0)
		}).
		Return(nil).Once()

	events, err := w.DepositFor(ctx, db, port, alice, bob, amount(40))
	assert.Nil(t, err)
	port.AssertExpectations(t)
	assert.Equal(t, []ledger.Event{
		&TransferEvent{From: nil, To: bob, Value: amount(40)},
	}, events)
	assertBalances(t, l, db, []balance{{alice, 0}, {bob, 40}})
	assertSupply(t, l, db, 40)
}

func TestWrapperDepositForFailures(t *testing.T) {
	var (
		underlying = ledgertest.Account("underlying")
		self       = ledgertest.Account("wrapper")
		ctx        = context.Background()
	)

	cases := map[string]struct {
		supply  ledger.Amount
		value   ledger.Amount
		portErr error
		wantErr *errors.Error
		// when false, the port must not be called at all
		wantPull bool
	}{
		"pull rejected": {
			value:    amount(10),
			portErr:  errors.Wrap(errors.ErrInsufficientAllowance, "underlying"),
			wantErr:  errors.ErrInsufficientAllowance,
			wantPull: true,
		},
		"mint would exceed the supply ceiling": {
			supply:   ledger.MaxAmount(),
			value:    amount(1),
			wantErr:  errors.ErrCustom,
			wantPull: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := NewLedger("wrapped")
			w := NewWrapper(l, underlying, self)

			base := store.MemStore()
			if !tc.supply.IsZero() {
				_, err := l.Mint(base, carol, tc.supply)
				assert.Nil(t, err)
			}
			db := store.NewRecordingStore(base)

			port := &mockPort{}
			if tc.wantPull {
				port.On("TransferFrom", ctx, underlying, self, alice, self, tc.value, []byte(nil)).
					Return(tc.portErr).Once()
			}

			_, err := w.DepositFor(ctx, db, port, alice, alice, tc.value)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			port.AssertExpectations(t)
			ledgertest.AssertNoWrites(t, db.(store.Recorder))
		})
	}
}

func TestWrapperWithdrawTo(t *testing.T) {
	var (
		underlying = ledgertest.Account("underlying")
		self       = ledgertest.Account("wrapper")
		ctx        = context.Background()
	)

	l := NewLedger("wrapped")
	w := NewWrapper(l, underlying, self)
	db := setup(t, l, []balance{{alice, 100}}, nil)

	port := &mockPort{}
	port.On("Transfer", ctx, underlying, carol, amount(60), []byte(nil)).
		Run(func(mock.Arguments) {
			// The burn is applied before the underlying units leave.
			assertBalances(t, l, db, []balance{{alice, 40}})
		}).
		Return(nil).Once()

	events, err := w.WithdrawTo(ctx, db, port, alice, carol, amount(60))
	assert.Nil(t, err)
	port.AssertExpectations(t)
	assert.Equal(t, []ledger.Event{
		&TransferEvent{From: alice, To: nil, Value: amount(60)},
	}, events)
	assertSupply(t, l, db, 40)

	// Not enough wrapped units, nothing is sent.
	_, err = w.WithdrawTo(ctx, db, port, alice, carol, amount(41))
	assert.IsErr(t, errors.ErrInsufficientBalance, err)
	port.AssertNumberOfCalls(t, "Transfer", 1)

	// The push failure is returned, the caller discards the burn.
	cache := db.CacheWrap()
	port.On("Transfer", ctx, underlying, carol, amount(40), []byte(nil)).
		Return(errors.ErrState.New("peer is paused")).Once()
	_, err = w.WithdrawTo(ctx, cache, port, alice, carol, amount(40))
	assert.IsErr(t, errors.ErrState, err)
	cache.Discard()
	assertBalances(t, l, db, []balance{{alice, 40}})
}

// TestWrapperRoundTrip wires a wrapper and its underlying token through a
// router sharing one store.
func TestWrapperRoundTrip(t *testing.T) {
	var (
		underlyingAddr = ledgertest.Account("underlying")
		self           = ledgertest.Account("wrapper")
		ctx            = context.Background()
	)

	underlying := NewLedger("underlying")
	router := NewRouter()
	router.Register(underlyingAddr, NewLedgerHandler(underlying))

	wrapped := NewLedger("wrapped")
	w := NewWrapper(wrapped, underlyingAddr, self)

	db := store.MemStore()
	_, err := underlying.Init(db, amount(100), alice)
	assert.Nil(t, err)

	// Without an approval on the underlying token the deposit fails.
	cache := db.CacheWrap()
	port := NewRouterPort(router, cache, self)
	_, err = w.DepositFor(ctx, cache, port, alice, alice, amount(30))
	assert.IsErr(t, errors.ErrInsufficientAllowance, err)
	cache.Discard()

	_, err = underlying.Approve(db, alice, self, amount(30))
	assert.Nil(t, err)

	cache = db.CacheWrap()
	port = NewRouterPort(router, cache, self)
	_, err = w.DepositFor(ctx, cache, port, alice, alice, amount(30))
	assert.Nil(t, err)
	assert.Nil(t, cache.Write())
	assert.Equal(t, 2, len(port.Emitted()))

	assertBalances(t, underlying, db, []balance{{alice, 70}, {self, 30}})
	assertBalances(t, wrapped, db, []balance{{alice, 30}})

	cache = db.CacheWrap()
	port = NewRouterPort(router, cache, self)
	_, err = w.WithdrawTo(ctx, cache, port, alice, bob, amount(10))
	assert.Nil(t, err)
	assert.Nil(t, cache.Write())

	assertBalances(t, underlying, db, []balance{{alice, 70}, {self, 20}, {bob, 10}})
	assertBalances(t, wrapped, db, []balance{{alice, 20}})
	assertSupply(t, wrapped, db, 20)
}
