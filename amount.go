package ledger

import (
	"encoding/json"

	"github.com/holiman/uint256"
	"github.com/iov-one/ledger/errors"
)

// AmountLength is the size of the binary representation of an Amount.
const AmountLength = 16

// maxAmount is 2^128-1, the largest representable amount.
var maxAmount = uint256.Int{^uint64(0), ^uint64(0), 0, 0}

// Amount is an unsigned 128 bit quantity of fungible units.
//
// The zero value is a valid zero amount. Arithmetic never wraps: additions
// and subtractions are either checked and report ErrOverflow, or saturate.
type Amount struct {
	v uint256.Int
}

// NewAmount returns an amount of given value.
func NewAmount(v uint64) Amount {
	return Amount{v: *uint256.NewInt(v)}
}

// MaxAmount returns 2^128-1.
func MaxAmount() Amount {
	return Amount{v: maxAmount}
}

// ParseAmount decodes a base 10 representation.
func ParseAmount(s string) (Amount, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, errors.Wrapf(errors.ErrInput, "amount %q: %s", s, err)
	}
	if v.Gt(&maxAmount) {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "amount %q", s)
	}
	return Amount{v: *v}, nil
}

// AmountFromBytes decodes the big endian representation returned by Bytes.
func AmountFromBytes(raw []byte) (Amount, error) {
	if len(raw) != AmountLength {
		return Amount{}, errors.Wrapf(errors.ErrInput, "amount must be %d bytes, got %d", AmountLength, len(raw))
	}
	var a Amount
	a.v.SetBytes(raw)
	return a, nil
}

// Bytes returns the fixed size, big endian representation.
func (a Amount) Bytes() []byte {
	b := a.v.Bytes32()
	return b[32-AmountLength:]
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Cmp returns -1, 0 or 1 if a is lower, equal or greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

func (a Amount) Equals(b Amount) bool {
	return a.v.Eq(&b.v)
}

// CheckedAdd returns a+b or ErrOverflow if the result does not fit in 128
// bits.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	var res Amount
	if _, overflow := res.v.AddOverflow(&a.v, &b.v); overflow || res.v.Gt(&maxAmount) {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return res, nil
}

// CheckedSub returns a-b or ErrOverflow if b is greater than a.
func (a Amount) CheckedSub(b Amount) (Amount, error) {
	var res Amount
	if _, underflow := res.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s - %s", a, b)
	}
	return res, nil
}

// SaturatingAdd returns a+b, or MaxAmount if the result does not fit.
func (a Amount) SaturatingAdd(b Amount) Amount {
	res, err := a.CheckedAdd(b)
	if err != nil {
		return MaxAmount()
	}
	return res
}

// SaturatingSub returns a-b, or zero if b is greater than a.
func (a Amount) SaturatingSub(b Amount) Amount {
	res, err := a.CheckedSub(b)
	if err != nil {
		return Amount{}
	}
	return res
}

// String returns the base 10 representation.
func (a Amount) String() string {
	return a.v.ToBig().String()
}

// MarshalJSON encodes the amount as a decimal string. 128 bit values do not
// fit into a JSON number without loosing precision.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "amount must be a decimal string")
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
