/*
Package bridge defines the interfaces shared by all parts of the bridge trust
root: storage, context helpers, conditions and addresses, messages, handlers
and genesis initialization.

Extensions live under x/ and are wired together by the app package. Look into
this package to get a brief overview of the building blocks that signer set
rotation, proof verification and batch execution are built from.

We pass context through context.Context between the app, handlers and
controllers. There should exist two functions for every XYZ of type T that we
want to support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. chain id).
*/
package bridge
