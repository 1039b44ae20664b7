// Package propagation implements the W3C trace-context and baggage
// propagators (spec.md §4.1, §6) on top of a carrier abstraction generic
// enough for HTTP headers, message broker metadata, or a plain map.
package propagation

import "context"

// TextMapCarrier is a string key/value store instrumentation adapts to its
// transport (e.g. http.Header).
type TextMapCarrier interface {
	Get(key string) string
	Set(key, value string)
	Keys() []string
}

// TextMapPropagator injects values from a context into a carrier, and
// extracts values from a carrier into a context.
type TextMapPropagator interface {
	Inject(ctx context.Context, carrier TextMapCarrier)
	Extract(ctx context.Context, carrier TextMapCarrier) context.Context
	Fields() []string
}

// MapCarrier adapts a plain map[string]string to TextMapCarrier.
type MapCarrier map[string]string

func (c MapCarrier) Get(key string) string { return c[key] }
func (c MapCarrier) Set(key, value string) { c[key] = value }
func (c MapCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// HeaderCarrier adapts an http.Header-shaped map to TextMapCarrier. Keys
// are looked up and stored exactly as given; no textproto canonicalization
// is applied.
type HeaderCarrier map[string][]string

func (c HeaderCarrier) Get(key string) string {
	if v, ok := c[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}
func (c HeaderCarrier) Set(key, value string) { c[key] = []string{value} }
func (c HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Composite chains propagators: Inject runs each in order; Extract runs
// each in the same order, feeding the accumulating context forward
// (spec.md §4.1).
type Composite []TextMapPropagator

func NewCompositeTextMapPropagator(propagators ...TextMapPropagator) TextMapPropagator {
	return Composite(propagators)
}

func (c Composite) Inject(ctx context.Context, carrier TextMapCarrier) {
	for _, p := range c {
		p.Inject(ctx, carrier)
	}
}

func (c Composite) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	for _, p := range c {
		ctx = p.Extract(ctx, carrier)
	}
	return ctx
}

func (c Composite) Fields() []string {
	seen := make(map[string]struct{})
	var fields []string
	for _, p := range c {
		for _, f := range p.Fields() {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			fields = append(fields, f)
		}
	}
	return fields
}
