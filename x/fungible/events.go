package fungible

import (
	"github.com/iov-one/ledger"
)

// TransferEvent is emitted when units move between accounts. From is nil for
// a mint and To is nil for a burn.
type TransferEvent struct {
	From  ledger.Account
	To    ledger.Account
	Value ledger.Amount
}

var _ ledger.Event = (*TransferEvent)(nil)

func (TransferEvent) EventName() string { return "Transfer" }

// ApprovalEvent is emitted when an allowance changes. Value is the resulting
// allowance.
type ApprovalEvent struct {
	Owner   ledger.Account
	Spender ledger.Account
	Value   ledger.Amount
}

var _ ledger.Event = (*ApprovalEvent)(nil)

func (ApprovalEvent) EventName() string { return "Approval" }
