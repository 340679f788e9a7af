// Package kv provides the key-value persistence store shared by Citadel views.
//
// # Overview
//
// The Store interface is the only way favorites and comments reach
// persistent state. Values are opaque strings; callers store JSON arrays
// through ReadStrings and WriteStrings.
//
// # Change Notification
//
// Subscribe registers a callback for one exact key. Callbacks fire for:
//
//   - Local writes, synchronously inside Set/Delete (Remote=false)
//   - Writes from other contexts, from the backend's watcher goroutine
//     (Remote=true)
//
// Callbacks must return quickly; the UI forwards them into its event loop.
//
// # Backends
//
//   - Memory: in-process; Peer() creates extra contexts for tests
//   - File: JSON object file replaced atomically on every write under an
//     advisory file lock, fsnotify watch on the directory detects other
//     processes
//   - Redis: keys under "citadel:", changes published on "citadel:changes"
//
// # Consistency
//
// Every write replaces a whole key after the caller read it. Writes to
// different keys never clobber each other, but callers do not lock across
// contexts: two contexts toggling the same favorite at the same moment can
// lose one update (last writer wins per key). Within one
// context writes are serialized and immediately visible to the next read.
package kv
