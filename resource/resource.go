// Package resource implements Resource composition (spec.md §3, §4.9): the
// immutable set of attributes describing the entity producing telemetry,
// built by merging detector output with user-supplied attributes.
package resource

import (
	"context"

	"github.com/dartastic/otelcore-go/attribute"
)

// Resource is an immutable attribute Set plus an optional schema URL.
type Resource struct {
	set       attribute.Set
	schemaURL string
}

// Empty returns the zero Resource (no attributes, no schema URL).
func Empty() *Resource {
	return &Resource{}
}

// NewSchemaless builds a Resource from kvs with no schema URL.
func NewSchemaless(kvs ...attribute.KeyValue) *Resource {
	return &Resource{set: attribute.NewSet(kvs...)}
}

// New builds a Resource from kvs with an explicit schema URL.
func New(schemaURL string, kvs ...attribute.KeyValue) *Resource {
	return &Resource{set: attribute.NewSet(kvs...), schemaURL: schemaURL}
}

func (r *Resource) Attributes() []attribute.KeyValue {
	if r == nil {
		return nil
	}
	return r.set.ToSlice()
}

func (r *Resource) SchemaURL() string {
	if r == nil {
		return ""
	}
	return r.schemaURL
}

func (r *Resource) Equal(other *Resource) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.set.Equivalent() == other.set.Equivalent() && r.schemaURL == other.schemaURL
}

// Merge combines a with b: attributes present in both are resolved in
// favor of b (spec.md §4.9's precedence — later/more-specific layers win),
// and b's schema URL wins when non-empty.
func Merge(a, b *Resource) *Resource {
	merged := map[attribute.Key]attribute.Value{}
	order := []attribute.Key{}
	add := func(kvs []attribute.KeyValue) {
		for _, kv := range kvs {
			if _, ok := merged[kv.Key]; !ok {
				order = append(order, kv.Key)
			}
			merged[kv.Key] = kv.Value
		}
	}
	add(a.Attributes())
	add(b.Attributes())

	kvs := make([]attribute.KeyValue, 0, len(order))
	for _, k := range order {
		kvs = append(kvs, attribute.KeyValue{Key: k, Value: merged[k]})
	}

	schemaURL := a.SchemaURL()
	if b.SchemaURL() != "" {
		schemaURL = b.SchemaURL()
	}
	return &Resource{set: attribute.NewSet(kvs...), schemaURL: schemaURL}
}

// Detector discovers a Resource describing part of the runtime environment
// (host, process, platform-specific metadata).
type Detector interface {
	Detect(ctx context.Context) (*Resource, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(ctx context.Context) (*Resource, error)

func (f DetectorFunc) Detect(ctx context.Context) (*Resource, error) { return f(ctx) }

// Detect runs detectors in order, merging their output with later
// detectors winning on overlapping keys (spec.md §4.9: platform < service
// < tenant < user). The caller controls precedence purely by detector
// ordering.
func Detect(ctx context.Context, detectors ...Detector) (*Resource, error) {
	result := Empty()
	for _, d := range detectors {
		r, err := d.Detect(ctx)
		if err != nil {
			return nil, err
		}
		result = Merge(result, r)
	}
	return result, nil
}
