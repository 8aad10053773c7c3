package contract

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/fungible"
	"github.com/tendermint/tendermint/libs/log"
)

// Option configures a contract.
type Option func(*contract)

// WithRouter sets the router used for cross-ledger calls.
func WithRouter(r *fungible.Router) Option {
	return func(c *contract) { c.router = r }
}

// WithPublisher sets the destination of emitted events. By default events are
// dropped.
func WithPublisher(p Publisher) Option {
	return func(c *contract) { c.publisher = p }
}

func WithMetrics(m *Metrics) Option {
	return func(c *contract) { c.metrics = m }
}

func WithLogger(l log.Logger) Option {
	return func(c *contract) { c.logger = l }
}

// contract is the execution core shared by all contract kinds.
type contract struct {
	address   ledger.Account
	pkg       string
	router    *fungible.Router
	publisher Publisher
	codec     *EventCodec
	metrics   *Metrics
	logger    log.Logger
}

func newContract(address ledger.Account, pkg string, opts []Option) contract {
	c := contract{
		address: address,
		pkg:     pkg,
		codec:   NewEventCodec(),
		logger:  ledger.DefaultLogger,
	}
	for _, fn := range opts {
		fn(&c)
	}
	c.logger = c.logger.With("module", "contract", "contract", address.String())
	return c
}

// Address returns the account of the contract.
func (c *contract) Address() ledger.Account {
	return c.address
}

// operation mutates the state and returns the events to emit. Cross-ledger
// calls must be issued with the given port, which is nil if the contract has
// no router.
type operation func(db ledger.KVStore, port *fungible.RouterPort) ([]ledger.Event, error)

// exec runs the operation atomically. All writes, including those of nested
// cross-ledger calls, are applied only if the operation succeeds. Events are
// published once the writes are done.
//
// A panic is returned as ErrPanic, with nothing written.
func (c *contract) exec(ctx context.Context, db ledger.CacheableKVStore, name string, op operation) (err error) {
	defer func() { c.metrics.observe(name, err) }()
	defer errors.Recover(&err)

	if err := ctx.Err(); err != nil {
		return errors.Wrapf(errors.ErrState, "%s: %s", name, err)
	}

	cache := db.CacheWrap()
	var port *fungible.RouterPort
	if c.router != nil {
		port = fungible.NewRouterPort(c.router, cache, c.address)
	}

	events, err := op(cache, port)
	if err != nil {
		cache.Discard()
		code, _ := errors.Info(err, false)
		c.logger.Info("operation failed", "op", name, "code", code, "err", err)
		return err
	}

	records, err := c.records(events, port)
	if err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "%s: write: %s", name, err)
	}
	c.logger.Debug("operation executed", "op", name, "events", len(records))

	if c.publisher == nil || len(records) == 0 {
		return nil
	}
	// The state is already written, a publisher failure does not fail the
	// operation.
	if err := c.publisher.Publish(records); err != nil {
		c.logger.Error("cannot publish events", "op", name, "err", err)
	}
	return nil
}

// records encodes the events of the contract followed by the events of the
// nested calls, in call order.
func (c *contract) records(events []ledger.Event, port *fungible.RouterPort) ([]Record, error) {
	var emitted []fungible.Emitted
	for _, e := range events {
		emitted = append(emitted, fungible.Emitted{Emitter: c.address, Event: e})
	}
	if port != nil {
		emitted = append(emitted, port.Emitted()...)
	}

	records := make([]Record, 0, len(emitted))
	for _, e := range emitted {
		raw, err := c.codec.Encode(e.Event)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			Emitter: e.Emitter,
			Name:    e.Event.EventName(),
			Data:    raw,
		})
	}
	return records, nil
}
