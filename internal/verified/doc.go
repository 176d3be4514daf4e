// Package verified persists each reviewer's confirmed groupings as a JSON
// file named after the sanitized identity. Writes go through a temp file
// and rename so readers never observe a partial file, and an advisory file
// lock serializes read-modify-write cycles on a single host.
package verified
