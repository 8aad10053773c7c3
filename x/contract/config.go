package contract

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// TokenConfig is the configuration of a fungible token contract. It is kept in
// the database with gconf and updated by the contract itself when the owner
// or the pause state changes.
type TokenConfig struct {
	Name     string `protobuf:"bytes,1,opt,name=name,proto3" json:"name"`
	Symbol   string `protobuf:"bytes,2,opt,name=symbol,proto3" json:"symbol"`
	Decimals uint32 `protobuf:"varint,3,opt,name=decimals,proto3" json:"decimals"`
	// Cap is the maximum total supply as a decimal string. Empty means the
	// supply is limited by the amount range only.
	Cap string `protobuf:"bytes,4,opt,name=cap,proto3" json:"cap,omitempty"`
	// Owner may mint and pause. Nil once the ownership is renounced.
	Owner ledger.Account `protobuf:"bytes,5,opt,name=owner,proto3" json:"owner,omitempty"`
	// Underlying is the address of the wrapped token, if any.
	Underlying ledger.Account `protobuf:"bytes,6,opt,name=underlying,proto3" json:"underlying,omitempty"`
	Paused     bool           `protobuf:"varint,7,opt,name=paused,proto3" json:"paused"`
}

func (m *TokenConfig) Reset()         { *m = TokenConfig{} }
func (m *TokenConfig) String() string { return proto.CompactTextString(m) }
func (*TokenConfig) ProtoMessage()    {}

func (m *TokenConfig) Validate() error {
	var errs error
	if m.Decimals > 255 {
		errs = errors.AppendField(errs, "Decimals", errors.ErrInput)
	}
	if m.Cap != "" {
		if _, err := ledger.ParseAmount(m.Cap); err != nil {
			errs = errors.AppendField(errs, "Cap", err)
		}
	}
	if m.Owner != nil {
		errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	}
	if m.Underlying != nil {
		errs = errors.AppendField(errs, "Underlying", m.Underlying.Validate())
	}
	return errs
}

// MaxSupply returns the supply cap, or the maximum amount if no cap is set.
func (m *TokenConfig) MaxSupply() (ledger.Amount, error) {
	if m.Cap == "" {
		return ledger.MaxAmount(), nil
	}
	return ledger.ParseAmount(m.Cap)
}

// CollectionConfig is the configuration of a non-fungible token contract.
type CollectionConfig struct {
	Name   string         `protobuf:"bytes,1,opt,name=name,proto3" json:"name"`
	Symbol string         `protobuf:"bytes,2,opt,name=symbol,proto3" json:"symbol"`
	Owner  ledger.Account `protobuf:"bytes,3,opt,name=owner,proto3" json:"owner,omitempty"`
}

func (m *CollectionConfig) Reset()         { *m = CollectionConfig{} }
func (m *CollectionConfig) String() string { return proto.CompactTextString(m) }
func (*CollectionConfig) ProtoMessage()    {}

func (m *CollectionConfig) Validate() error {
	var errs error
	if m.Owner != nil {
		errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	}
	return errs
}
