// Package state provides thread-safe state shared between fetches and views.
//
// # Overview
//
// Store holds the most recent character list. Fetches run on their own
// goroutines and call Update; views call Snapshot and receive an independent
// copy.
//
// DetailTracker holds the state of the detail view:
//
//	Begin(id) ──> Loading ──Resolve──> Loaded | Failed | NotFound
//
// # Stale Responses
//
// Fetches are never cancelled when the user navigates away, so a slow
// response can arrive after a newer request started. Every Begin returns a
// Ticket carrying the requested id and a sequence number; Resolve commits
// only when both still match the latest Begin. Older results are dropped.
//
// # Error Retention
//
// A failed list fetch keeps the previous characters and records LastError.
// A failed first fetch leaves the snapshot unloaded with an error, which
// views treat as terminal until the user reloads.
package state
