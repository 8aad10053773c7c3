/*
Package ledger holds the vocabulary shared by the fungible and non-fungible
ledger engines.

A ledger is a pure state transition component. The host resolves the calling
Account and passes it explicitly into every mutating operation together with
the KVStore holding the ledger state. The operation either returns an ordered
list of Events to publish, or an error in which case no write was performed.

	events, err := tokens.Transfer(db, caller, to, ledger.NewAmount(40))

The store interfaces mirror a plain key value database without iteration.
Atomic execution of a whole call is provided by CacheableKVStore, see the
store package for the in-memory implementations.
*/
package ledger
