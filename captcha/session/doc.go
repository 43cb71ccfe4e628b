// Package session holds the mutable state of live arrow-sequence
// challenges and the concurrent store mapping session identifiers to them.
//
// Core Types:
//
// Challenge owns one challenge's state: the immutable secret answer, the
// sliding buffer of entered symbols, the failure counter, and the encoded
// image bytes. Store maps each session identifier to at most one live
// Challenge and guarantees that installing, removing, and replacing are
// atomic per identifier.
//
// Concurrency:
//
// Input state and the image resource are guarded by two independent
// mutexes; they are never needed together. Disposal is driven by a
// lock-free compare-and-swap flag, so concurrent dispose calls release the
// challenge's resources exactly once. The Store serializes map mutations
// under a single lock but never runs challenge disposal while holding it.
//
// Lifecycle:
//
// A Challenge is created fully formed (answer, zoom, encoded image) and
// installed into the Store, displacing and disposing any predecessor for
// the same identifier. It is disposed when solved, explicitly removed, or
// replaced after repeated failures. Disposal is irreversible: the image is
// released, the input buffer is cleared, and all further input is
// rejected.
package session
