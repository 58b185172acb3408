// Package services defines shared utilities consumed by the splitter, the
// worker, and the external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp row indices, target languages, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failure text
//     consistent across components.
//   - FailureMessage, which reduces any row or job error to the free text
//     written back to the status message column.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across both stages.
package services
