package metric

import (
	"context"

	"github.com/dartastic/otelcore-go/resource"
)

// ResourceMetrics is every ScopeMetrics collected across a
// MeterProvider's meters at one point in time, alongside the resource
// they share.
type ResourceMetrics struct {
	Resource     *resource.Resource
	ScopeMetrics []ScopeMetrics
}

// Exporter sends collected metrics to a backend (spec.md §4.6/§4.7).
type Exporter interface {
	Export(ctx context.Context, metrics ResourceMetrics) error
	Temporality(kind Kind) Temporality
	Shutdown(ctx context.Context) error
}
