// Package logs reads the per-run log files written by the poll loop.
//
// Latest locates the newest run log, Last returns its trailing lines, and
// Follow streams lines appended after a known offset until the caller's
// context ends. The `clinicwatch logs` command is built on these helpers.
package logs
