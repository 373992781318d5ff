// Package formstate synchronises field values and touched flags with an
// external form-state store. The Synchronizer never edits store snapshots in
// place: it reads the current values, touched and initial trees, computes the
// next state and writes it back through the Store contract. Every write
// returns a Signal that is watched in the background; rejected writes are
// routed to the configured zerolog logger instead of the caller.
//
// Array-valued fields get add/remove/update helpers that keep the parallel
// touched sequence index-aligned with the value sequence. Eager validation
// marks the whole initial snapshot touched after construction (ModeCreate) or
// once the record being edited has been fetched (ModeUpdate). Normalize drops
// touched string fields that were left blank and had no initial value, so
// downstream consumers see them as omitted rather than empty.
package formstate
