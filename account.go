package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/ledger/crypto/bech32"
	"github.com/iov-one/ledger/errors"
)

// AccountLength is the length of all accounts.
const AccountLength = 32

// Account is an opaque party identifier: an owner, spender or operator.
//
// A nil Account stands for "none". It is used as the source of a mint and
// the destination of a burn in emitted events.
type Account []byte

// NewAccount derives an account from arbitrary data. Contract accounts are
// derived from their deployment name this way.
func NewAccount(data []byte) Account {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:]
}

// Equals checks if two accounts are the same.
func (a Account) Equals(b Account) bool {
	return bytes.Equal(a, b)
}

// IsNone returns true if this account represents no party.
func (a Account) IsNone() bool {
	return len(a) == 0
}

// Validate returns an error if the account is not the valid size.
func (a Account) Validate() error {
	if len(a) != AccountLength {
		return errors.ErrInput.Newf("account: %X", []byte(a))
	}
	return nil
}

// String returns a human readable string.
func (a Account) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 returns the bech32 representation of this account using given human
// readable part.
func (a Account) Bech32(hrp string) (string, error) {
	raw, err := bech32.Encode(hrp, a)
	if err != nil {
		return "", errors.Wrap(err, "bech32 account")
	}
	return string(raw), nil
}

// MarshalJSON provides a hex representation for JSON,
// to override the standard base64 []byte encoding
func (a Account) MarshalJSON() ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(a))
	return json.Marshal(s)
}

func (a *Account) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	acc, err := ParseAccount(enc)
	if err != nil {
		return err
	}
	*a = acc
	return nil
}

// ParseAccount decodes a hex or "bech32:" prefixed representation. An empty
// string decodes to the nil account.
func ParseAccount(enc string) (Account, error) {
	// If the encoded string starts with a prefix, cut it off and use
	// specified decoding method instead of default one.
	chunks := strings.SplitN(enc, ":", 2)
	format := chunks[0]
	if len(chunks) == 1 {
		format = "hex"
	} else {
		enc = chunks[1]
	}

	if len(enc) == 0 {
		return nil, nil
	}

	switch format {
	case "hex":
		val, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
		}
		acc := Account(val)
		if err := acc.Validate(); err != nil {
			return nil, err
		}
		return acc, nil
	case "bech32":
		_, payload, err := bech32.Decode(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "deserialize bech32: %s", err)
		}
		acc := Account(payload)
		if err := acc.Validate(); err != nil {
			return nil, err
		}
		return acc, nil
	default:
		return nil, errors.ErrInput.Newf("unknown format %q", chunks[0])
	}
}
