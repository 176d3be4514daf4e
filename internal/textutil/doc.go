// Package textutil provides small text helpers shared across the
// application: identity-to-filename sanitization and normalization of
// reviewer-supplied group names.
package textutil
