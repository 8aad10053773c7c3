/*
Package fungible implements the fungible asset ledger: balances, allowances
and the total supply of a single token.

The Ledger is a pure state transition component. Every mutating operation
receives the store and the account resolved by the host, validates all
preconditions and only then writes. On success it returns the events to
publish, on failure nothing was written.

Moving units between two ledgers (wrapping an underlying token) is done
through the Port. A Port call is dispatched to the peer ledger by a 4 byte
Selector, see Router for an in-process implementation.
*/
package fungible
