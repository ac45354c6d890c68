/*
Package session implements the registry of live hearings for multi-session hosts.

It creates sessions from the case catalog (or from ad-hoc scripts), keys them by
a random UUID, serialises operations on the same session with reference-counted
locks and tears sessions down on request. Sessions live only in memory.
*/
package session
