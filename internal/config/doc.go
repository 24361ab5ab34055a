// Package config loads, normalizes, and validates clinicwatch configuration.
//
// It supplies repository defaults (the coordinates, marker strings, and
// timings the poller was calibrated with), expands user paths, reads TOML
// files, and honours the CLINICWATCH_WEBHOOK_URL environment fallback. The
// Config value is read once before the poll loop starts and is never
// reloaded; downstream packages receive derived, immutable settings.
//
// Always obtain settings through this package so the poller sees sanitized
// paths, validated screen regions, and clear validation errors.
package config
