package contract

import (
	"sync"

	"github.com/iov-one/ledger"
)

// Record is an encoded event together with the address of the contract that
// emitted it.
type Record struct {
	Emitter ledger.Account
	Name    string
	Data    []byte
}

// Publisher receives the events of every successful operation, in emission
// order. It is called only after the state changes were written.
type Publisher interface {
	Publish(records []Record) error
}

// EventLog is an in memory Publisher.
type EventLog struct {
	mu      sync.Mutex
	records []Record
}

var _ Publisher = (*EventLog)(nil)

func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) Publish(records []Record) error {
	l.mu.Lock()
	l.records = append(l.records, records...)
	l.mu.Unlock()
	return nil
}

// Records returns all records published so far.
func (l *EventLog) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}
