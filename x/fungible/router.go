package fungible

import (
	"context"
	"fmt"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Handler executes cross-ledger calls addressed to one ledger.
//
// The store is the one of the calling operation, so that a failing outer
// operation discards the writes of the nested call too.
type Handler interface {
	Handle(ctx context.Context, db ledger.CacheableKVStore, call Call) ([]ledger.Event, error)
}

// Router is an in-process host dispatching calls to registered ledgers by
// the callee account.
type Router struct {
	routes map[string]Handler
}

// NewRouter returns a router with no ledgers registered.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]Handler),
	}
}

// Register makes the handler available under given account. Registering an
// account twice is a programming error and panics.
func (r *Router) Register(account ledger.Account, h Handler) {
	if err := account.Validate(); err != nil {
		panic(fmt.Sprintf("cannot register handler: %s", err))
	}
	key := string(account)
	if _, ok := r.routes[key]; ok {
		panic(fmt.Sprintf("re-registering handler for %s", account))
	}
	r.routes[key] = h
}

// Handler returns the handler registered under given account or nil.
func (r *Router) Handler(account ledger.Account) Handler {
	return r.routes[string(account)]
}

// Dispatch executes the call using the handler registered for the callee.
func (r *Router) Dispatch(ctx context.Context, db ledger.CacheableKVStore, call Call) ([]ledger.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "call %s: %s", call.Selector, err)
	}
	h := r.Handler(call.Callee)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no ledger at %s", call.Callee)
	}
	return h.Handle(ctx, db, call)
}

// Emitted is an event together with the account of the ledger that emitted
// it.
type Emitted struct {
	Emitter ledger.Account
	Event   ledger.Event
}

// RouterPort is a Port dispatching calls through a Router within one
// operation of the ledger owning the self account.
type RouterPort struct {
	router  *Router
	db      ledger.CacheableKVStore
	self    ledger.Account
	emitted []Emitted
}

var _ Port = (*RouterPort)(nil)

// NewRouterPort returns a port issuing calls as self, using the store of the
// operation in progress.
func NewRouterPort(router *Router, db ledger.CacheableKVStore, self ledger.Account) *RouterPort {
	return &RouterPort{
		router: router,
		db:     db,
		self:   self,
	}
}

func (p *RouterPort) TransferFrom(ctx context.Context, peer, spender, from, to ledger.Account, value ledger.Amount, data []byte) error {
	args := TransferFromArgs{From: from, To: to, Value: value, Data: data}
	return p.dispatch(ctx, Call{
		Callee:   peer,
		Caller:   spender,
		Selector: TransferFromSelector,
		Args:     args.Marshal(),
	})
}

func (p *RouterPort) Transfer(ctx context.Context, peer, to ledger.Account, value ledger.Amount, data []byte) error {
	args := TransferArgs{To: to, Value: value, Data: data}
	return p.dispatch(ctx, Call{
		Callee:   peer,
		Caller:   p.self,
		Selector: TransferSelector,
		Args:     args.Marshal(),
	})
}

func (p *RouterPort) dispatch(ctx context.Context, call Call) error {
	events, err := p.router.Dispatch(ctx, p.db, call)
	if err != nil {
		return err
	}
	for _, e := range events {
		p.emitted = append(p.emitted, Emitted{Emitter: call.Callee, Event: e})
	}
	return nil
}

// Emitted returns all events returned by successful calls, in call order.
func (p *RouterPort) Emitted() []Emitted {
	return p.emitted
}

// LedgerHandler serves cross-ledger calls directly from a Ledger, without
// any contract policy on top.
type LedgerHandler struct {
	ledger *Ledger
}

var _ Handler = LedgerHandler{}

func NewLedgerHandler(l *Ledger) LedgerHandler {
	return LedgerHandler{ledger: l}
}

func (h LedgerHandler) Handle(ctx context.Context, db ledger.CacheableKVStore, call Call) ([]ledger.Event, error) {
	return HandleCall(h.ledger, db, call)
}

// HandleCall decodes the call and executes it against given ledger.
func HandleCall(l *Ledger, db ledger.KVStore, call Call) ([]ledger.Event, error) {
	switch call.Selector {
	case TransferFromSelector:
		var args TransferFromArgs
		if err := args.Unmarshal(call.Args); err != nil {
			return nil, errors.Wrap(err, "transfer_from arguments")
		}
		return l.TransferFrom(db, call.Caller, args.From, args.To, args.Value)
	case TransferSelector:
		var args TransferArgs
		if err := args.Unmarshal(call.Args); err != nil {
			return nil, errors.Wrap(err, "transfer arguments")
		}
		return l.Transfer(db, call.Caller, args.To, args.Value)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown selector %s", call.Selector)
	}
}
