package ledger

// Event is a fact emitted by a ledger operation for external observation.
//
// Mutating ledger operations return an ordered list of events. The ledger
// never publishes them itself, this is the responsibility of the host.
type Event interface {
	EventName() string
}
