// Command groupcheck is the operator CLI for the review deployment: it
// inspects configuration, the derived catalog, per-reviewer verified
// groupings, and the decision history, and can query a running server.
package main
