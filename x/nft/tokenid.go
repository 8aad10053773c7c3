package nft

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/iov-one/ledger/errors"
)

// Kind is the variant of a TokenID.
type Kind byte

const (
	KindU8 Kind = iota + 1
	KindU16
	KindU32
	KindU64
	KindU128
	KindBytes
)

// width returns the size in bytes of the numeric kinds.
func (k Kind) width() int {
	switch k {
	case KindU8:
		return 1
	case KindU16:
		return 2
	case KindU32:
		return 4
	case KindU64:
		return 8
	case KindU128:
		return 16
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "U8"
	case KindU16:
		return "U16"
	case KindU32:
		return "U32"
	case KindU64:
		return "U64"
	case KindU128:
		return "U128"
	case KindBytes:
		return "Bytes"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// TokenID identifies a single token. It is either an unsigned integer of one
// of the supported widths or an arbitrary byte string.
//
// The zero value is not a valid identifier.
type TokenID struct {
	kind Kind
	// hi and lo hold the value of the numeric kinds.
	hi, lo uint64
	raw    []byte
}

func U8(v uint8) TokenID   { return TokenID{kind: KindU8, lo: uint64(v)} }
func U16(v uint16) TokenID { return TokenID{kind: KindU16, lo: uint64(v)} }
func U32(v uint32) TokenID { return TokenID{kind: KindU32, lo: uint64(v)} }
func U64(v uint64) TokenID { return TokenID{kind: KindU64, lo: v} }

// U128 returns a 128 bit identifier of value hi*2^64 + lo.
func U128(hi, lo uint64) TokenID { return TokenID{kind: KindU128, hi: hi, lo: lo} }

// Bytes returns a byte string identifier. The value is copied.
func Bytes(b []byte) TokenID {
	raw := make([]byte, len(b))
	copy(raw, b)
	return TokenID{kind: KindBytes, raw: raw}
}

func (id TokenID) Kind() Kind {
	return id.kind
}

// Validate returns an error if the identifier was not created with one of the
// constructors.
func (id TokenID) Validate() error {
	if id.kind < KindU8 || id.kind > KindBytes {
		return errors.Wrapf(errors.ErrInput, "invalid token id kind %d", byte(id.kind))
	}
	return nil
}

// Compare returns -1, 0 or 1 if id is lower, equal or greater than other.
//
// Integer identifiers compare by numeric value regardless of their width. Of
// two equal values, the narrower kind is lower. Every integer identifier is
// lower than any byte string identifier and byte strings compare
// lexicographically.
func (id TokenID) Compare(other TokenID) int {
	idBytes, otherBytes := id.kind == KindBytes, other.kind == KindBytes
	switch {
	case idBytes && otherBytes:
		return bytes.Compare(id.raw, other.raw)
	case idBytes:
		return 1
	case otherBytes:
		return -1
	}

	switch {
	case id.hi < other.hi:
		return -1
	case id.hi > other.hi:
		return 1
	case id.lo < other.lo:
		return -1
	case id.lo > other.lo:
		return 1
	case id.kind < other.kind:
		return -1
	case id.kind > other.kind:
		return 1
	}
	return 0
}

func (id TokenID) Equals(other TokenID) bool {
	return id.Compare(other) == 0
}

// Key returns the binary representation used in database keys: the kind
// followed by the big endian value of a fixed size for numeric kinds, or by
// the raw bytes.
func (id TokenID) Key() []byte {
	if id.kind == KindBytes {
		return append([]byte{byte(KindBytes)}, id.raw...)
	}
	w := id.kind.width()
	buf := make([]byte, 1+16)
	buf[0] = byte(id.kind)
	binary.BigEndian.PutUint64(buf[1:], id.hi)
	binary.BigEndian.PutUint64(buf[9:], id.lo)
	// Keep only the w lowest bytes.
	copy(buf[1:], buf[17-w:])
	return buf[:1+w]
}

// TokenIDFromKey decodes the representation returned by Key.
func TokenIDFromKey(key []byte) (TokenID, error) {
	if len(key) == 0 {
		return TokenID{}, errors.Wrap(errors.ErrInput, "empty token id")
	}
	kind := Kind(key[0])
	payload := key[1:]
	switch kind {
	case KindBytes:
		return Bytes(payload), nil
	case KindU8, KindU16, KindU32, KindU64, KindU128:
		if len(payload) != kind.width() {
			return TokenID{}, errors.Wrapf(errors.ErrInput, "%s token id must be %d bytes", kind, kind.width())
		}
		var buf [16]byte
		copy(buf[16-len(payload):], payload)
		return TokenID{
			kind: kind,
			hi:   binary.BigEndian.Uint64(buf[:8]),
			lo:   binary.BigEndian.Uint64(buf[8:]),
		}, nil
	default:
		return TokenID{}, errors.Wrapf(errors.ErrInput, "invalid token id kind %d", key[0])
	}
}

// prefixedKey returns the Key prefixed with its length, so that it can be
// followed by other data in a composite key.
func (id TokenID) prefixedKey() []byte {
	key := id.Key()
	out := make([]byte, 4, 4+len(key))
	binary.BigEndian.PutUint32(out, uint32(len(key)))
	return append(out, key...)
}

func (id TokenID) String() string {
	switch id.kind {
	case KindBytes:
		return fmt.Sprintf("Bytes(%X)", id.raw)
	case KindU128:
		v := new(big.Int).SetUint64(id.hi)
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(id.lo))
		return fmt.Sprintf("U128(%s)", v)
	case KindU8, KindU16, KindU32, KindU64:
		return fmt.Sprintf("%s(%d)", id.kind, id.lo)
	}
	return "(invalid)"
}
