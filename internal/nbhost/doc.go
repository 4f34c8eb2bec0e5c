// Package nbhost implements the notebook-host side of the cellwire
// protocol at its boundary: connect, identify as host, read command frames,
// dispatch to an Executor, answer with the tagged result.
//
// Command semantics live behind the Executor interface. MemoryNotebook is
// an in-memory stand-in used by cmd/hostsim and the integration tests; a
// real deployment binds an executor backed by an actual notebook runtime.
package nbhost
