// Package relay owns the broker between one notebook host and its callers.
//
// Ownership boundary:
// - connection registry (zero-or-one host slot, caller set)
//
// - role handshake
//
// - frame routing (command forward, result fan-out, no-host error synthesis)
//
// - listener binding with sequential port fallback
//
// Routing is fire-and-forget: a failed forward is logged and dropped here;
// delivery reliability is the caller-side correlator's concern. The relay
// never interprets command payloads.
package relay
