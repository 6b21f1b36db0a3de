// Package memory provides process-local implementations of the store
// interfaces. Records live in slices guarded by a single lock, identifiers
// come from atomic per-entity sequences, and units of work are undone on
// failure. It is the default backend and the one used by service tests.
package memory
