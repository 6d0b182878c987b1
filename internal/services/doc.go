// Package services defines shared utilities consumed by the pipeline and
// external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that translate step
//     failures into consistent response status codes and messages.
//   - Context helpers that stamp job and step identifiers for logging.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the system.
package services
