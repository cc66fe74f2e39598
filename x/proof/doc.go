/*
Package proof verifies that a data digest was approved by a registered
signer set.

A proof carries the signer set and the signatures of a subset of its
members. Each member signs

	keccak256(SignCodeV1 | domain separator | signer set digest | data digest)

so that signatures cannot be reused by another deployment or for another
signer set. Both the signers of the set and the signatures of the proof must
be sorted by address in ascending order. The verifier does not sort, use
Builder to create proofs.

The signer set must be registered and still within the retention window of
the registry. Whether it is the latest set is reported but not enforced.
Handlers that require the latest set can check IsLatest.
*/
package proof
