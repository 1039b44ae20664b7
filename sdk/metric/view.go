package metric

import (
	"strings"

	"github.com/dartastic/otelcore-go/attribute"
)

// View rewrites a matched instrument's stream: name, description,
// aggregation kind, and an attribute key whitelist (spec.md §4.6). A View
// can also fan one instrument into multiple streams by being registered
// more than once with overlapping matches.
type View struct {
	// Match selects which instruments this View applies to. Empty fields
	// are wildcards.
	InstrumentName string
	ScopeName      string

	// Rewrite fields. Empty/zero means "keep the instrument's own value".
	Name              string
	Description       string
	Kind              aggregationOverride
	AttributeKeys     []attribute.Key // whitelist; nil means "keep all"
	HistogramBoundaries []float64
}

type aggregationOverride struct {
	set  bool
	kind Kind
}

// WithAggregationKind overrides the aggregation kind a View rewrites an
// instrument to use.
func WithAggregationKind(k Kind) aggregationOverride {
	return aggregationOverride{set: true, kind: k}
}

// matches reports whether the View applies to the given instrument
// identity. InstrumentName supports a single trailing '*' wildcard, the
// common case for matching a family of instrument names.
func (v View) matches(instrumentName, scopeName string) bool {
	if v.ScopeName != "" && v.ScopeName != scopeName {
		return false
	}
	if v.InstrumentName == "" {
		return true
	}
	if strings.HasSuffix(v.InstrumentName, "*") {
		return strings.HasPrefix(instrumentName, strings.TrimSuffix(v.InstrumentName, "*"))
	}
	return v.InstrumentName == instrumentName
}

// filterAttributes applies the View's whitelist, returning the kept set
// and the dropped key/values (which feed an exemplar's filtered_attributes,
// per spec.md §4.6/§4.7).
func filterAttributes(keys []attribute.Key, in attribute.Set) (kept attribute.Set, dropped []attribute.KeyValue) {
	if keys == nil {
		return in, nil
	}
	allow := make(map[attribute.Key]struct{}, len(keys))
	for _, k := range keys {
		allow[k] = struct{}{}
	}
	all := in.ToSlice()
	keptKVs := make([]attribute.KeyValue, 0, len(all))
	for _, kv := range all {
		if _, ok := allow[kv.Key]; ok {
			keptKVs = append(keptKVs, kv)
		} else {
			dropped = append(dropped, kv)
		}
	}
	return attribute.NewSet(keptKVs...), dropped
}

// resolvedStream is the effective (possibly rewritten) identity and
// aggregation an instrument stream collects under, after applying any
// matching Views.
type resolvedStream struct {
	name        string
	description string
	kind        Kind
	keys        []attribute.Key
	boundaries  []float64
}

// resolveStreams returns one resolvedStream per View that matches the
// instrument, or the instrument's own identity unchanged if no View
// matches — the mechanism by which a single instrument fans into
// multiple streams.
func resolveStreams(views []View, instrumentName, scopeName, description string, defaultKind Kind, defaultBoundaries []float64) []resolvedStream {
	var matched []resolvedStream
	for _, v := range views {
		if !v.matches(instrumentName, scopeName) {
			continue
		}
		rs := resolvedStream{
			name:        instrumentName,
			description: description,
			kind:        defaultKind,
			boundaries:  defaultBoundaries,
		}
		if v.Name != "" {
			rs.name = v.Name
		}
		if v.Description != "" {
			rs.description = v.Description
		}
		if v.Kind.set {
			rs.kind = v.Kind.kind
		}
		if v.AttributeKeys != nil {
			rs.keys = v.AttributeKeys
		}
		if v.HistogramBoundaries != nil {
			rs.boundaries = v.HistogramBoundaries
		}
		matched = append(matched, rs)
	}
	if len(matched) == 0 {
		return []resolvedStream{{
			name:        instrumentName,
			description: description,
			kind:        defaultKind,
			boundaries:  defaultBoundaries,
		}}
	}
	return matched
}
