/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension owns a single configuration message, stored under the
"_c:<package name>" key. Configuration is loaded from the genesis file "conf"
section by InitConfig and validated every time it is saved.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client. Application must be
terminated and configured correctly.
*/
package gconf
