// Package server exposes the review flow over HTTP: the identification and
// group pages, the decision endpoint, the summary view, and a small JSON
// status endpoint. Every per-request failure redirects to a safe page; raw
// errors are never rendered to the reviewer.
package server
