// Package main hosts the vodpress CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot pipeline runs, run history,
// configuration scaffolding, and external tool checks. It centralizes
// configuration resolution and logger setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
