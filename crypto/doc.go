/*
Package crypto implements the signature schemes accepted by the bridge.

Signature bytes are self-describing: the first byte names the scheme and the
rest is the scheme specific payload.

	0x01 secp256k1: 65 byte compact recoverable signature
	0x02 ed25519:   32 byte public key followed by a 64 byte signature

Recover returns the address of the signer of a message, so a signature can
be matched against a signer set without knowing the public key upfront.
*/
package crypto
