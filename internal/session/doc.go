// Package session tracks per-browser review state: the reviewer identity
// and the cursor into the group catalog. State is keyed by opaque tokens
// carried in a cookie and lives only in memory; durable results belong to
// the verified store.
package session
