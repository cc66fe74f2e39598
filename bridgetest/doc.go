/*
Package bridgetest provides fixtures for tests: deterministic signing keys,
addresses, conditions and Authenticator mocks.

This package must not depend on any extension so that every package can use
it in its tests.
*/
package bridgetest
