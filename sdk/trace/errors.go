package trace

import "github.com/dartastic/otelcore-go/internal/log"

// logExportFailure reports a swallowed export error (spec.md §7 kind 3:
// exhausted retries are surfaced here as a log, never to instrumentation
// code).
func logExportFailure(err error) {
	log.Error("trace: span export failed: %v", err)
}
