/*
Package batch executes batches of calls authorized by a proof, exactly once.

A batch is identified by an externally supplied 32 byte id. The submitted
calls, together with the batch id, are hashed into the data digest that the
proof must authorize. Only calls addressed to this chain and the configured
contract are executed, in order, through the Router.

The batch id is marked as executing before any call runs, so a call that
submits the same batch again is rejected. When all calls succeed their
effects and the executed mark are committed together. When any call fails,
nothing is committed and the batch can be submitted again.

An executed batch id is rejected with ErrAlreadyExecuted before the rest of
the message is validated.

Executing marks left behind by a crash are removed by Reconcile.
*/
package batch
