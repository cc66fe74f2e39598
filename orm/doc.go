/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Objects are protobuf messages that can validate themselves.
* Easy queries for one and iteration over the whole bucket.

Sequences provide monotonic counters stored next to the buckets.
*/
package orm
