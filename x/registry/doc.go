/*
Package registry keeps track of the signer sets trusted by the bridge.

Every rotation registers a new signer set under the next epoch. The registry
keeps two mappings in sync: epoch to signer set (the "epochs" bucket) and
signer set digest to the epoch it was last registered at (the "digests"
bucket). A signer set is acceptable as long as it was registered no more than
retention window rotations ago. Stale sets are never removed so that the
history remains queryable.

Only the configured rotation authority can rotate signer sets using the
RotateSignersMsg.
*/
package registry
