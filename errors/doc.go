// Package errors provides the structured error type shared by the juice plant
// packages. Every error carries a machine-readable ErrorCode so callers can
// tell a released blocking call apart from a broken pipeline invariant.
package errors
