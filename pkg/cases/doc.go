// Package cases provides the built-in library of criminal cases, the scripted
// hearings attached to them and their static evaluation reports.
package cases
