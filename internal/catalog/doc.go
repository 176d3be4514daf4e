// Package catalog loads the static item-to-group mapping reviewed by this
// deployment and derives the ordered list of groups presented to reviewers.
// The catalog is built once at startup and never mutated afterwards.
package catalog
