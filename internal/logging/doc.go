// Package logging assembles structured slog loggers used across vodpress.
//
// It owns the console/JSON handler selection, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with job and step identifiers. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
