// Package instrumentation holds the identity of the library producing
// telemetry (spec.md §3's InstrumentationScope), attached to every span,
// log record, and metric stream emitted through a Tracer/Logger/Meter.
package instrumentation

import "github.com/dartastic/otelcore-go/attribute"

// Scope identifies the instrumentation library that created a piece of
// telemetry: its name, version, schema URL, and any attributes it was
// constructed with.
type Scope struct {
	Name       string
	Version    string
	SchemaURL  string
	Attributes attribute.Set
}

// Option configures a Scope when obtaining a Logger/Meter from a
// provider that doesn't define its own option type.
type Option func(*Scope)

func WithVersion(version string) Option {
	return func(s *Scope) { s.Version = version }
}

func WithSchemaURL(url string) Option {
	return func(s *Scope) { s.SchemaURL = url }
}

func WithScopeAttributes(kvs ...attribute.KeyValue) Option {
	return func(s *Scope) { s.Attributes = attribute.NewSet(append(s.Attributes.ToSlice(), kvs...)...) }
}
