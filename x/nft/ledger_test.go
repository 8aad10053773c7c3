package nft

import (
	"math/rand"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	. "github.com/smartystreets/goconvey/convey"
)

func shouldBeErr(actual interface{}, expected ...interface{}) string {
	want := expected[0].(*errors.Error)
	if err, _ := actual.(error); want.Is(err) {
		return ""
	}
	return "expected " + want.Error() + " error, got: " + errorString(actual)
}

func errorString(v interface{}) string {
	if err, ok := v.(error); ok && err != nil {
		return err.Error()
	}
	return "no error"
}

func TestLedger(t *testing.T) {
	Convey("Test non fungible ledger", t, func() {
		x := ledgertest.Account("x")
		y := ledgertest.Account("y")
		operator := ledgertest.Account("operator")

		l := NewLedger("collection")
		db := store.MemStore()

		Convey("Test mint and transfer", func() {
			events, err := l.Mint(db, x, U8(7))
			So(err, ShouldBeNil)
			So(events, ShouldResemble, []ledger.Event{&TransferEvent{To: x, ID: U8(7)}})

			owner, err := l.OwnerOf(db, U8(7))
			So(err, ShouldBeNil)
			So(owner, ShouldResemble, x)
			supply, err := l.TotalSupply(db)
			So(err, ShouldBeNil)
			So(supply, ShouldEqual, 1)

			events, err = l.Transfer(db, x, y, U8(7), nil)
			So(err, ShouldBeNil)
			So(events, ShouldResemble, []ledger.Event{&TransferEvent{From: x, To: y, ID: U8(7)}})

			owner, err = l.OwnerOf(db, U8(7))
			So(err, ShouldBeNil)
			So(owner, ShouldResemble, y)
			tokens, err := l.TokensOf(db, x)
			So(err, ShouldBeNil)
			So(tokens, ShouldBeEmpty)
			tokens, err = l.TokensOf(db, y)
			So(err, ShouldBeNil)
			So(tokens, ShouldResemble, []TokenID{U8(7)})
			n, err := l.BalanceOf(db, y)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)

			Convey("Transfer to the owner is a noop", func() {
				rec := store.NewRecordingStore(db)
				events, err := l.Transfer(rec, y, y, U8(7), nil)
				So(err, ShouldBeNil)
				So(events, ShouldBeEmpty)
				So(rec.(store.Recorder).KVPairs(), ShouldBeEmpty)
			})

			Convey("Transfer requires an approval", func() {
				_, err := l.Transfer(db, x, x, U8(7), nil)
				So(err, shouldBeErr, errors.ErrNotApproved)

				_, err = l.Approve(db, y, x, ptr(U8(7)), true)
				So(err, ShouldBeNil)
				events, err := l.Transfer(db, x, x, U8(7), nil)
				So(err, ShouldBeNil)
				// From is the previous owner, not the approved caller.
				So(events, ShouldResemble, []ledger.Event{&TransferEvent{From: y, To: x, ID: U8(7)}})

				// The single token approval was consumed.
				ok, err := l.Allowance(db, y, x, ptr(U8(7)))
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})

			Convey("Missing token", func() {
				_, err := l.Transfer(db, x, y, U8(8), nil)
				So(err, shouldBeErr, errors.ErrTokenNotExists)
			})
		})

		Convey("Test burn authorization", func() {
			_, err := l.Mint(db, x, U8(7))
			So(err, ShouldBeNil)

			Convey("Blanket approval allows burning", func() {
				_, err := l.Approve(db, x, operator, nil, true)
				So(err, ShouldBeNil)

				events, err := l.Burn(db, operator, x, U8(7))
				So(err, ShouldBeNil)
				So(events, ShouldResemble, []ledger.Event{&TransferEvent{From: x, ID: U8(7)}})

				owner, err := l.OwnerOf(db, U8(7))
				So(err, ShouldBeNil)
				So(owner, ShouldBeNil)
				supply, err := l.TotalSupply(db)
				So(err, ShouldBeNil)
				So(supply, ShouldEqual, 0)
				_, err = l.TokenByIndex(db, 0)
				So(err, shouldBeErr, errors.ErrTokenNotExists)
			})

			Convey("Single token approval does not allow burning", func() {
				_, err := l.Approve(db, x, operator, ptr(U8(7)), true)
				So(err, ShouldBeNil)

				rec := store.NewRecordingStore(db)
				_, err = l.Burn(rec, operator, x, U8(7))
				So(err, shouldBeErr, errors.ErrNotApproved)
				So(rec.(store.Recorder).KVPairs(), ShouldBeEmpty)

				// It is enough for a transfer.
				_, err = l.Transfer(db, operator, y, U8(7), nil)
				So(err, ShouldBeNil)
			})

			Convey("Token must be owned by the account", func() {
				_, err := l.Approve(db, y, operator, nil, true)
				So(err, ShouldBeNil)
				_, err = l.Burn(db, operator, y, U8(7))
				So(err, shouldBeErr, errors.ErrNotApproved)
				_, err = l.Burn(db, y, y, U8(7))
				So(err, shouldBeErr, errors.ErrNotApproved)
			})

			Convey("Missing token", func() {
				_, err := l.Burn(db, x, x, U8(8))
				So(err, shouldBeErr, errors.ErrTokenNotExists)
			})
		})

		Convey("Test double mint", func() {
			_, err := l.Mint(db, x, U8(7))
			So(err, ShouldBeNil)

			rec := store.NewRecordingStore(db)
			_, err = l.Mint(rec, y, U8(7))
			So(err, shouldBeErr, errors.ErrTokenExists)
			So(rec.(store.Recorder).KVPairs(), ShouldBeEmpty)

			owner, err := l.OwnerOf(db, U8(7))
			So(err, ShouldBeNil)
			So(owner, ShouldResemble, x)

			// The same value of a different width is another token.
			_, err = l.Mint(db, y, U16(7))
			So(err, ShouldBeNil)
			supply, err := l.TotalSupply(db)
			So(err, ShouldBeNil)
			So(supply, ShouldEqual, 2)
		})

		Convey("Test approvals", func() {
			_, err := l.Mint(db, x, U8(1))
			So(err, ShouldBeNil)

			Convey("Approval events", func() {
				events, err := l.Approve(db, x, operator, ptr(U8(1)), true)
				So(err, ShouldBeNil)
				So(events, ShouldResemble, []ledger.Event{
					&ApprovalEvent{Owner: x, Operator: operator, ID: ptr(U8(1)), Approved: true},
				})

				events, err = l.Approve(db, x, operator, ptr(U8(1)), false)
				So(err, ShouldBeNil)
				So(events, ShouldResemble, []ledger.Event{
					&ApprovalEvent{Owner: x, Operator: operator, ID: ptr(U8(1)), Approved: false},
				})
				ok, err := l.Allowance(db, x, operator, ptr(U8(1)))
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})

			Convey("Missing token", func() {
				_, err := l.Approve(db, x, operator, ptr(U8(2)), true)
				So(err, shouldBeErr, errors.ErrTokenNotExists)
			})

			Convey("Owner cannot be approved", func() {
				_, err := l.Approve(db, x, x, ptr(U8(1)), true)
				So(err, shouldBeErr, errors.ErrSelfApprove)
			})

			Convey("Only the owner or its operator can approve", func() {
				_, err := l.Approve(db, y, operator, ptr(U8(1)), true)
				So(err, shouldBeErr, errors.ErrNotApproved)

				_, err = l.Approve(db, x, y, nil, true)
				So(err, ShouldBeNil)
				events, err := l.Approve(db, y, operator, ptr(U8(1)), true)
				So(err, ShouldBeNil)
				// Registered for the owner.
				So(events, ShouldResemble, []ledger.Event{
					&ApprovalEvent{Owner: x, Operator: operator, ID: ptr(U8(1)), Approved: true},
				})
				ok, err := l.Allowance(db, x, operator, ptr(U8(1)))
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				ok, err = l.Allowance(db, y, operator, ptr(U8(1)))
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})

			Convey("Blanket approval cannot be revoked for a single token", func() {
				_, err := l.Approve(db, x, operator, nil, true)
				So(err, ShouldBeNil)

				_, err = l.Approve(db, x, operator, ptr(U8(1)), false)
				So(err, shouldBeErr, errors.ErrCustom)

				ok, err := l.Allowance(db, x, operator, ptr(U8(42)))
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)

				_, err = l.Approve(db, x, operator, nil, false)
				So(err, ShouldBeNil)
				ok, err = l.Allowance(db, x, operator, nil)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("Test enumeration", func() {
			for _, id := range []TokenID{U8(1), U32(2), Bytes([]byte("three"))} {
				_, err := l.Mint(db, x, id)
				So(err, ShouldBeNil)
			}
			_, err := l.Mint(db, y, U64(4))
			So(err, ShouldBeNil)

			id, err := l.OwnersTokenByIndex(db, x, 2)
			So(err, ShouldBeNil)
			So(id, ShouldResemble, Bytes([]byte("three")))
			_, err = l.OwnersTokenByIndex(db, x, 3)
			So(err, shouldBeErr, errors.ErrTokenNotExists)

			id, err = l.TokenByIndex(db, 3)
			So(err, ShouldBeNil)
			So(id, ShouldResemble, U64(4))

			_, err = l.Transfer(db, x, y, U8(1), nil)
			So(err, ShouldBeNil)
			tokens, err := l.TokensOf(db, x)
			So(err, ShouldBeNil)
			So(tokens, ShouldResemble, []TokenID{Bytes([]byte("three")), U32(2)})
			tokens, err = l.TokensOf(db, y)
			So(err, ShouldBeNil)
			So(tokens, ShouldResemble, []TokenID{U64(4), U8(1)})
		})

		Convey("Test attributes", func() {
			value, err := l.GetAttribute(db, U8(1), []byte("name"))
			So(err, ShouldBeNil)
			So(value, ShouldBeNil)

			events, err := l.SetAttribute(db, U8(1), []byte("name"), []byte("first"))
			So(err, ShouldBeNil)
			So(events, ShouldResemble, []ledger.Event{
				&AttributeSetEvent{ID: U8(1), Key: []byte("name"), Data: []byte("first")},
			})
			value, err = l.GetAttribute(db, U8(1), []byte("name"))
			So(err, ShouldBeNil)
			So(value, ShouldResemble, []byte("first"))

			_, err = l.SetAttribute(db, U8(1), []byte("name"), nil)
			So(err, ShouldBeNil)
			value, err = l.GetAttribute(db, U8(1), []byte("name"))
			So(err, ShouldBeNil)
			So(value, ShouldNotBeNil)
			So(value, ShouldBeEmpty)

			// Keys of different tokens do not collide.
			_, err = l.SetAttribute(db, Bytes([]byte("a")), []byte("bc"), []byte("1"))
			So(err, ShouldBeNil)
			value, err = l.GetAttribute(db, Bytes([]byte("ab")), []byte("c"))
			So(err, ShouldBeNil)
			So(value, ShouldBeNil)
		})

		Convey("Test collection id", func() {
			contract := ledgertest.Account("contract")
			So(CollectionID(contract), ShouldResemble, Bytes(contract))
		})
	})
}

func ptr(id TokenID) *TokenID {
	return &id
}

// TestSupplyInvariant runs a random sequence of operations and checks the
// enumeration invariants after each of them.
func TestSupplyInvariant(t *testing.T) {
	accounts := []ledger.Account{
		ledgertest.Account("a"),
		ledgertest.Account("b"),
		ledgertest.Account("c"),
	}
	ids := []TokenID{U8(1), U8(2), U16(1), U64(9), Bytes([]byte("x")), Bytes([]byte("y"))}
	r := rand.New(rand.NewSource(7))
	pick := func() ledger.Account { return accounts[r.Intn(len(accounts))] }

	l := NewLedger("")
	db := store.MemStore()

	for i := 0; i < 400; i++ {
		id := ids[r.Intn(len(ids))]
		var err error
		switch r.Intn(4) {
		case 0:
			_, err = l.Mint(db, pick(), id)
		case 1:
			_, err = l.Burn(db, pick(), pick(), id)
		case 2:
			_, err = l.Transfer(db, pick(), pick(), id, nil)
		case 3:
			_, err = l.Approve(db, pick(), pick(), nil, r.Intn(2) == 0)
		}
		if err != nil && !errors.ErrTokenExists.Is(err) && !errors.ErrTokenNotExists.Is(err) && !errors.ErrNotApproved.Is(err) {
			t.Fatalf("step %d: unexpected error: %+v", i, err)
		}

		var owned, listed uint64
		for _, id := range ids {
			owner, err := l.OwnerOf(db, id)
			if err != nil {
				t.Fatalf("step %d: %+v", i, err)
			}
			if owner != nil {
				owned++
			}
		}
		for _, a := range accounts {
			tokens, err := l.TokensOf(db, a)
			if err != nil {
				t.Fatalf("step %d: %+v", i, err)
			}
			for _, id := range tokens {
				owner, err := l.OwnerOf(db, id)
				if err != nil || !owner.Equals(a) {
					t.Fatalf("step %d: %s listed for %s, owned by %s", i, id, a, owner)
				}
			}
			listed += uint64(len(tokens))
		}
		supply, err := l.TotalSupply(db)
		if err != nil {
			t.Fatalf("step %d: %+v", i, err)
		}
		if supply != owned || supply != listed {
			t.Fatalf("step %d: supply %d, owned %d, listed %d", i, supply, owned, listed)
		}
	}
}
