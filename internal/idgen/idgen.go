// Package idgen generates trace and span IDs (spec.md §3, §4.3).
package idgen

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/dartastic/otelcore-go/trace"
)

// Generator produces new trace and span IDs. NewSpanID additionally
// receives the owning traceID so implementations that want ID families
// correlated to a trace (rare) have the option.
type Generator interface {
	NewTraceID() trace.TraceID
	NewSpanID(traceID trace.TraceID) trace.SpanID
}

// randomGenerator is the default Generator: cryptographically random IDs
// guarded by a mutex, mirroring the teacher's ID generator locking
// discipline around a shared math/rand-style source.
type randomGenerator struct {
	mu sync.Mutex
}

// NewDefault returns the default random ID generator.
func NewDefault() Generator { return &randomGenerator{} }

func (g *randomGenerator) NewTraceID() trace.TraceID {
	g.mu.Lock()
	defer g.mu.Unlock()
	var tid trace.TraceID
	for {
		_, _ = rand.Read(tid[:])
		if tid.IsValid() {
			return tid
		}
	}
}

func (g *randomGenerator) NewSpanID(_ trace.TraceID) trace.SpanID {
	g.mu.Lock()
	defer g.mu.Unlock()
	var sid trace.SpanID
	for {
		_, _ = rand.Read(sid[:])
		if sid.IsValid() {
			return sid
		}
	}
}

// traceIDLowUint64 reinterprets the low 8 bytes of a trace id as an
// unsigned integer, the quantity TraceIDRatioBased compares against its
// threshold (spec.md §4.2).
func traceIDLowUint64(t trace.TraceID) uint64 {
	return binary.BigEndian.Uint64(t[8:])
}

// TraceIDLowUint64 exposes traceIDLowUint64 for use by samplers outside
// this package.
func TraceIDLowUint64(t trace.TraceID) uint64 { return traceIDLowUint64(t) }
