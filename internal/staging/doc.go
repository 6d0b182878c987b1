// Package staging owns the scratch directory lifecycle for one job. The
// orchestrator acquires a Workspace before staging the source and releases it
// on every exit path, success or failure.
package staging
