// Package preflight provides readiness checks for the device, binaries, and
// local paths clinicwatch depends on.
//
// The run command calls RunAll before starting the loop and refuses to start
// when a required check fails. The doctor command renders the same results as
// a table.
package preflight
