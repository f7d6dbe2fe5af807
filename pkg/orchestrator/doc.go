// Package orchestrator wires the collect -> build -> launch sequence behind a
// single entry point so the CLI and library callers share one pipeline.
// Without a launcher the run is a dry run: the command is recorded and
// displayed, never executed.
package orchestrator
