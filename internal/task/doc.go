// Package task provides best-effort background processing for outbound
// notifications. Tasks run on a small worker pool fed by a bounded in-memory
// queue; delivery failures are retried a bounded number of times and then
// logged and dropped. Nothing in this package can affect the outcome of a
// catalog write.
package task
