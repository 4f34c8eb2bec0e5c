// Package caller implements the command-issuing side of the cellwire
// protocol.
//
// Ownership boundary:
// - request/response correlation (pending table keyed by request_id)
//
// - per-command timeout
//
// - reconnection policy: one dial attempt before a command when the
//   connection is down, fail fast otherwise
//
// Each live connection has exactly one listener goroutine; it resolves
// pending waiters by request_id and drops anything unmatched. A Client is
// an explicit handle: create one, share it, close it.
package caller
