/*
Package x contains the helpers shared by the bridge extensions, most notably
the Authenticator that lets handlers learn which conditions are fulfilled by
the current request.

Subpackages implement the extensions: signer sets, their registry, proof
verification and batch execution.
*/
package x
