// Package monitor runs the poll loop under a single-instance lock.
//
// The lock file lives in the state directory. A second monitor against the
// same state directory fails fast instead of driving the device
// concurrently.
package monitor
