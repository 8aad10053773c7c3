package contract

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/fungible"
	"github.com/iov-one/ledger/x/nft"
	amino "github.com/tendermint/go-amino"
)

// Records below are the binary form of ledger events, as written to the host
// log. Accounts are raw bytes, nil for none. Amounts are 16 bytes big endian
// and token ids use the nft.TokenID key encoding.

type TransferRecord struct {
	From  []byte
	To    []byte
	Value []byte
}

func (TransferRecord) EventName() string { return "Transfer" }

type ApprovalRecord struct {
	Owner   []byte
	Spender []byte
	Value   []byte
}

func (ApprovalRecord) EventName() string { return "Approval" }

type TokenTransferRecord struct {
	From []byte
	To   []byte
	ID   []byte
}

func (TokenTransferRecord) EventName() string { return "Transfer" }

// TokenApprovalRecord ID is nil for an approval of all tokens.
type TokenApprovalRecord struct {
	Owner    []byte
	Operator []byte
	ID       []byte
	Approved bool
}

func (TokenApprovalRecord) EventName() string { return "Approval" }

type AttributeSetRecord struct {
	ID   []byte
	Key  []byte
	Data []byte
}

func (AttributeSetRecord) EventName() string { return "AttributeSet" }

// EventCodec serializes ledger events with go-amino.
type EventCodec struct {
	cdc *amino.Codec
}

// NewEventCodec returns a codec with all record types registered.
func NewEventCodec() *EventCodec {
	cdc := amino.NewCodec()
	cdc.RegisterInterface((*ledger.Event)(nil), nil)
	cdc.RegisterConcrete(&TransferRecord{}, "ledger/fungible/Transfer", nil)
	cdc.RegisterConcrete(&ApprovalRecord{}, "ledger/fungible/Approval", nil)
	cdc.RegisterConcrete(&TokenTransferRecord{}, "ledger/nft/Transfer", nil)
	cdc.RegisterConcrete(&TokenApprovalRecord{}, "ledger/nft/Approval", nil)
	cdc.RegisterConcrete(&AttributeSetRecord{}, "ledger/nft/AttributeSet", nil)
	cdc.Seal()
	return &EventCodec{cdc: cdc}
}

// Encode returns the binary representation of an event emitted by one of the
// ledgers.
func (c *EventCodec) Encode(e ledger.Event) ([]byte, error) {
	rec, err := toRecord(e)
	if err != nil {
		return nil, err
	}
	raw, err := c.cdc.MarshalBinaryBare(rec)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "encode %s: %s", e.EventName(), err)
	}
	return raw, nil
}

// Decode returns the record encoded by Encode.
func (c *EventCodec) Decode(raw []byte) (ledger.Event, error) {
	var rec ledger.Event
	if err := c.cdc.UnmarshalBinaryBare(raw, &rec); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode event: %s", err)
	}
	return rec, nil
}

func toRecord(e ledger.Event) (ledger.Event, error) {
	switch e := e.(type) {
	case *fungible.TransferEvent:
		return &TransferRecord{From: e.From, To: e.To, Value: e.Value.Bytes()}, nil
	case *fungible.ApprovalEvent:
		return &ApprovalRecord{Owner: e.Owner, Spender: e.Spender, Value: e.Value.Bytes()}, nil
	case *nft.TransferEvent:
		return &TokenTransferRecord{From: e.From, To: e.To, ID: e.ID.Key()}, nil
	case *nft.ApprovalEvent:
		rec := &TokenApprovalRecord{Owner: e.Owner, Operator: e.Operator, Approved: e.Approved}
		if e.ID != nil {
			rec.ID = e.ID.Key()
		}
		return rec, nil
	case *nft.AttributeSetEvent:
		return &AttributeSetRecord{ID: e.ID.Key(), Key: e.Key, Data: e.Data}, nil
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unsupported event %T", e)
	}
}
