// Package protocol defines the cellwire frame model.
//
// One frame is one complete JSON object (UTF-8 text). Every frame carries a
// "type" tag; command frames additionally carry a caller-generated
// "request_id" that the answering result or error frame echoes unchanged.
//
// Ownership boundary:
// - frame classification (command / result / error / unknown)
//
// - the command table mapping each command type to its answering result type
//
// - handshake encoding
//
// The relay forwards command and result payloads verbatim; only this package
// decides what a frame is, never what it means.
package protocol
