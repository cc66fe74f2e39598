/*
Package signers implements the weighted signer set, the unit of trust of the
bridge.

A WeightedSignerSet is an ordered list of (address, weight) pairs, a
threshold and a 32 byte nonce. Sets are identified by their digest, the
keccak256 hash of the canonical protobuf encoding. Two sets that differ only
by the nonce are distinct sets.

Signers must be sorted by address in ascending order. Use
NewWeightedSignerSet to build a set from an unordered list.
*/
package signers
