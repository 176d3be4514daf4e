// Package review implements the decision flow: it resolves the group under
// a session's cursor, applies accept/reject decisions to the verified
// store, records them in the history log, and advances the cursor. The
// HTTP layer is a thin shell around this package.
package review
