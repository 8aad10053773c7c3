package fungible

import (
	"context"
	"encoding/hex"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"golang.org/x/crypto/blake2b"
)

// Port is the cross-ledger call interface used to move units of a peer
// token. Both calls are synchronous and either fully succeed or fail.
type Port interface {
	// TransferFrom calls transfer_from on the peer ledger as spender.
	TransferFrom(ctx context.Context, peer, spender, from, to ledger.Account, value ledger.Amount, data []byte) error
	// Transfer calls transfer on the peer ledger as the owner of the port.
	Transfer(ctx context.Context, peer, to ledger.Account, value ledger.Amount, data []byte) error
}

// SelectorLength is the size of a method selector.
const SelectorLength = 4

// Selector identifies a ledger method in a cross-ledger call.
type Selector [SelectorLength]byte

// NewSelector returns the selector of given canonical method signature: the
// first four bytes of its BLAKE2b-256 digest.
func NewSelector(signature string) Selector {
	var s Selector
	h := blake2b.Sum256([]byte(signature))
	copy(s[:], h[:SelectorLength])
	return s
}

func (s Selector) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

var (
	// TransferFromSelector is 0x54b3c76e.
	TransferFromSelector = NewSelector("PSP22::transfer_from")
	// TransferSelector is 0xdb20f9f5.
	TransferSelector = NewSelector("PSP22::transfer")
)

// Call is a single cross-ledger call. No value is attached to a call.
type Call struct {
	// Callee is the account of the ledger being called.
	Callee ledger.Account
	// Caller is the account the callee sees as the caller.
	Caller   ledger.Account
	Selector Selector
	// Args is the binary encoding of the call arguments, see
	// TransferFromArgs and TransferArgs.
	Args []byte
}

// TransferFromArgs are the arguments of a transfer_from call.
type TransferFromArgs struct {
	From  ledger.Account
	To    ledger.Account
	Value ledger.Amount
	Data  []byte
}

// Marshal returns the fixed layout encoding: from, to, value (big endian)
// followed by data.
func (a TransferFromArgs) Marshal() []byte {
	out := make([]byte, 0, 2*ledger.AccountLength+ledger.AmountLength+len(a.Data))
	out = append(out, a.From...)
	out = append(out, a.To...)
	out = append(out, a.Value.Bytes()...)
	return append(out, a.Data...)
}

func (a *TransferFromArgs) Unmarshal(raw []byte) error {
	var err error
	if a.From, raw, err = readAccount(raw); err != nil {
		return errors.Wrap(err, "from")
	}
	if a.To, raw, err = readAccount(raw); err != nil {
		return errors.Wrap(err, "to")
	}
	if a.Value, raw, err = readAmount(raw); err != nil {
		return errors.Wrap(err, "value")
	}
	a.Data = dataOrNil(raw)
	return nil
}

// TransferArgs are the arguments of a transfer call.
type TransferArgs struct {
	To    ledger.Account
	Value ledger.Amount
	Data  []byte
}

// Marshal returns the fixed layout encoding: to, value (big endian)
// followed by data.
func (a TransferArgs) Marshal() []byte {
	out := make([]byte, 0, ledger.AccountLength+ledger.AmountLength+len(a.Data))
	out = append(out, a.To...)
	out = append(out, a.Value.Bytes()...)
	return append(out, a.Data...)
}

func (a *TransferArgs) Unmarshal(raw []byte) error {
	var err error
	if a.To, raw, err = readAccount(raw); err != nil {
		return errors.Wrap(err, "to")
	}
	if a.Value, raw, err = readAmount(raw); err != nil {
		return errors.Wrap(err, "value")
	}
	a.Data = dataOrNil(raw)
	return nil
}

func readAccount(raw []byte) (ledger.Account, []byte, error) {
	if len(raw) < ledger.AccountLength {
		return nil, nil, errors.ErrInput.New("too short")
	}
	acc := make(ledger.Account, ledger.AccountLength)
	copy(acc, raw)
	return acc, raw[ledger.AccountLength:], nil
}

func readAmount(raw []byte) (ledger.Amount, []byte, error) {
	if len(raw) < ledger.AmountLength {
		return ledger.Amount{}, nil, errors.ErrInput.New("too short")
	}
	amount, err := ledger.AmountFromBytes(raw[:ledger.AmountLength])
	return amount, raw[ledger.AmountLength:], err
}

func dataOrNil(raw []byte) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
