// Package logging builds the slog loggers clinicwatch writes to the console
// and to per-run log files.
//
// The console handler prints one line per record with the poll loop's run
// counter, short check ID and state as a bracketed prefix, so a single check
// can be followed through the navigator, OCR and notifier. The JSON handler
// keeps the same fields as plain keys. PruneRunLogs applies
// logging.retention_days to old run logs.
package logging
