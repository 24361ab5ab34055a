// Package adb wraps the Android Debug Bridge command line tool.
//
// The Client exposes the handful of device operations the poller needs:
// launching an activity, simulating taps, capturing the screen to a device
// path, pulling and deleting files, and querying device state. Every call is
// bounded by a per-command timeout and runs through an Executor so tests can
// substitute a fake. Failures are tagged with services.ErrExternalTool; the
// caller decides whether to swallow them.
package adb
