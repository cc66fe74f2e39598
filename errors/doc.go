/*
Package errors implements the error kinds used across the bridge.

Every failure returned by this module wraps one of the root errors declared
with Register. Root errors carry a unique code, so a client can tell them
apart without parsing messages, and they are tested with the Is method:

	if batch.ErrAlreadyExecuted.Is(err) {
		...
	}

A root error may be declared as a refinement of another one with
RegisterSub. The refined error is then matched by both kinds, which lets a
caller check for the broad category (for example signers.ErrInvalidSigners)
while the implementation reports the precise one (signers.ErrInvalidWeights).

Extensions declare their own root errors in their errors.go file using a
code range reserved for them. Create error instances at the point of failure
with ErrXyz.New("...") or Wrap(err, "...") so that a stack trace is attached.
Only the innermost wrap records the stack.

Once you have an error, use fmt to get more context

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
