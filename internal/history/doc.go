// Package history keeps an append-only SQLite audit log of every review
// decision: who decided, at which catalog position, what the group was
// called, and whether it was accepted. The review flow works without it;
// the log exists so a pass can be reconstructed after the fact.
package history
