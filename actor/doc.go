// Package actor is a single-threaded-per-actor message-passing runtime:
// mailboxes, dispatchers, supervision, death watch, ask, stash, and a
// generic FSM layer, all built around a cell arena addressed by stable
// CellIds instead of shared pointers.
package actor
