// Package joblog keeps a SQLite ledger of pipeline invocations: one row per
// run with its outcome and output prefix. It is history for operators, not a
// queue; nothing schedules work from it.
package joblog
