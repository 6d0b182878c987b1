// Package daemon serves the HTTP trigger API. One POST runs one job
// synchronously and returns the structured result; status and history
// endpoints expose operational state.
package daemon
