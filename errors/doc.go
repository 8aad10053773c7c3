/*
Package errors implements the error taxonomy shared by all ledgers.

The idea is to reuse as many errors from this package as possible. Every
error returned by a ledger wraps exactly one registered root error, so a host
can tell the error kind apart by its code and callers can test it with the
Is method:

	if errors.ErrInsufficientBalance.Is(err) {
		...
	}

If you want to register a custom error - use Register(code, description).
For reusing errors - use ErrXxx.New and ErrXxx.Newf.

Please ensure you create the error using ErrXyz.New("...") or
errors.Wrap(err, "...") at the point of creation to ensure we attach
a stacktrace. If you wrap multiple times, we only record the first wrap with
the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error
	%s is just the error message
	%+v is the full stack trace
*/
package errors
