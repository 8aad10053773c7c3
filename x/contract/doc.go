/*
Package contract wraps the ledgers into contracts a host can call.

A contract resolves nothing itself. The host passes the caller account and a
store into every call. Each mutating call is executed in a cache wrap of that
store and written only on success, so a failed call leaves no trace. Events
of a successful call, including those emitted by ledgers called through the
router, are encoded with the EventCodec and handed to the Publisher.

Token configuration and collection configuration are kept in the store with
gconf.
*/
package contract
