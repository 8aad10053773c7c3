package ledger

import "github.com/tendermint/tendermint/libs/log"

// DefaultLogger is used by all components that have not
// set anything themselves
var DefaultLogger = log.NewNopLogger()
