// Package notify publishes job completion messages. Delivery is at-most-once:
// a publish failure after a successful upload leaves artifacts in place but
// the downstream consumer uninformed, and the pipeline surfaces that as a
// job failure rather than retrying.
package notify
