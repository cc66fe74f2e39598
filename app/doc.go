/*
Package app wires the bridge extensions into a Service that owns the store.

A Service serializes every operation, so that checking a batch id and
marking it as executed, or reading the current epoch and rotating, cannot
interleave. Messages are dispatched by a Router to the extension handlers.
The chain is initialized once from a genesis file using the extension
initializers.
*/
package app
