package nft

import (
	"github.com/iov-one/ledger"
)

// TransferEvent is emitted when a token changes owner. From is nil for a mint
// and To is nil for a burn.
//
// From is always the previous owner, also when an approved operator made the
// transfer. PSP34 logs report the caller instead.
type TransferEvent struct {
	From ledger.Account
	To   ledger.Account
	ID   TokenID
}

var _ ledger.Event = (*TransferEvent)(nil)

func (TransferEvent) EventName() string { return "Transfer" }

// ApprovalEvent is emitted when an operator approval is granted or revoked.
// ID is nil for an approval covering all tokens of the owner.
type ApprovalEvent struct {
	Owner    ledger.Account
	Operator ledger.Account
	ID       *TokenID
	Approved bool
}

var _ ledger.Event = (*ApprovalEvent)(nil)

func (ApprovalEvent) EventName() string { return "Approval" }

type AttributeSetEvent struct {
	ID   TokenID
	Key  []byte
	Data []byte
}

var _ ledger.Event = (*AttributeSetEvent)(nil)

func (AttributeSetEvent) EventName() string { return "AttributeSet" }
