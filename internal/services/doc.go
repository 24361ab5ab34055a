// Package services defines the error taxonomy and context helpers shared by
// the poller and its external collaborators (adb, OCR, webhook delivery).
//
// Key responsibilities:
//   - Sentinel error markers plus the Wrap helper, so every failure carries the
//     component and operation that produced it.
//   - Classify, the single place that maps a failure onto a Kind the poll loop
//     uses to decide how an iteration ended.
//   - Context helpers that stamp the run number, check identifier, and loop
//     state for structured logging.
package services
