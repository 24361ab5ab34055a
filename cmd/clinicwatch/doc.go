// Package main hosts the clinicwatch CLI entrypoint and command graph.
//
// The Cobra command tree wires configuration, logging, the adb driver, the
// tesseract engine, and the notifier into the poll loop (run, check), and
// exposes calibration and diagnostics commands (ocr, doctor, test-notify,
// config). Behaviour lives in internal packages; commands only assemble
// them and render results.
package main
