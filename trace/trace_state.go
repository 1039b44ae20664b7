package trace

import "strings"

// MaxTraceStateEntries bounds TraceState to 32 vendor entries (spec.md §3).
const MaxTraceStateEntries = 32

// TraceState is an ordered, opaque vendor -> value mapping that round-trips
// through the W3C tracestate header unmodified by this core.
type TraceState struct {
	// keys/values kept parallel and ordered to preserve W3C precedence
	// (most-recently-updated first), per the header's list semantics.
	keys   []string
	values []string
}

// ParseTraceState parses a comma-separated tracestate header value.
// Malformed entries are skipped; entries beyond MaxTraceStateEntries are
// dropped without error (opaque pass-through, best-effort).
func ParseTraceState(header string) TraceState {
	var ts TraceState
	if header == "" {
		return ts
	}
	for _, member := range strings.Split(header, ",") {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		k, v, ok := strings.Cut(member, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" {
			continue
		}
		if len(ts.keys) >= MaxTraceStateEntries {
			break
		}
		ts.keys = append(ts.keys, k)
		ts.values = append(ts.values, v)
	}
	return ts
}

// String renders the tracestate as a single comma-joined header value.
func (ts TraceState) String() string {
	if len(ts.keys) == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range ts.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(ts.values[i])
	}
	return b.String()
}

// Len reports the number of vendor entries.
func (ts TraceState) Len() int { return len(ts.keys) }

// Get returns the value for a vendor key, or "" if absent.
func (ts TraceState) Get(key string) string {
	for i, k := range ts.keys {
		if k == key {
			return ts.values[i]
		}
	}
	return ""
}

// Insert returns a new TraceState with key moved/added to the front, the
// position the W3C spec requires for the most-recently-updated entry.
func (ts TraceState) Insert(key, value string) TraceState {
	next := TraceState{
		keys:   make([]string, 0, len(ts.keys)+1),
		values: make([]string, 0, len(ts.values)+1),
	}
	next.keys = append(next.keys, key)
	next.values = append(next.values, value)
	for i, k := range ts.keys {
		if k == key {
			continue
		}
		next.keys = append(next.keys, k)
		next.values = append(next.values, ts.values[i])
	}
	if len(next.keys) > MaxTraceStateEntries {
		next.keys = next.keys[:MaxTraceStateEntries]
		next.values = next.values[:MaxTraceStateEntries]
	}
	return next
}
