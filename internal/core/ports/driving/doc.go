// Package driving provides interfaces the core exposes to external
// actors (primary/inbound ports): answering queries, administering
// corpus indexes, and maintaining chat memory.
package driving
