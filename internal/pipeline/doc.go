// Package pipeline orchestrates one transcoding job end to end: pick the
// newest source object, archive it, stage it locally, produce the DASH
// package and thumbnail through the external encoder, upload the artifacts,
// publish a completion notification, and release scratch space.
//
// The flow is strictly linear and single-job. A per-source-bucket file lease
// rejects overlapping invocations instead of queueing them.
package pipeline
