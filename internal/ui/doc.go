// Package ui implements Citadel's Bubble Tea interface.
//
// The screen is a header, a command bar and two panes: the character list on
// the left (grouped Starred / Characters, filtered by scope, species, name
// search and sort) and the detail pane on the right. The detail pane shows
// the home list at "/" and a character with its comments at
// "/character/:id".
//
// Asynchronous work runs as tea.Cmd: the list reload, the detail fetch and
// every store write. Detail responses carry the state.Ticket they were
// started with, and responses for superseded tickets are discarded.
//
// Store notifications (this process's own writes as well as writes made by
// other processes sharing the store) reach the model through a bridge that
// keeps only the latest favorites set and comment log, so a burst of writes
// never blocks the writer.
//
// After the first successful list load on the home route the model performs
// the one-shot home redirect.
package ui
