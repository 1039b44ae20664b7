package propagation

import (
	"context"
	"net/url"
	"strings"

	"github.com/dartastic/otelcore-go/baggage"
)

const baggageHeader = "baggage"

// Baggage implements the W3C Baggage propagator (spec.md §4.1, literal
// scenario 2): it injects and extracts the "baggage" header, percent-
// encoding values; keys and metadata are written and read as-is.
type Baggage struct{}

var _ TextMapPropagator = Baggage{}

func (Baggage) Inject(ctx context.Context, carrier TextMapCarrier) {
	b := baggage.FromContext(ctx)
	if b.Len() == 0 {
		return
	}
	members := b.Members()
	parts := make([]string, 0, len(members))
	for _, m := range members {
		entry := m.Key() + "=" + encodeBaggageValue(m.Value())
		if meta := m.Metadata(); meta != "" {
			entry += ";" + meta
		}
		parts = append(parts, entry)
	}
	carrier.Set(baggageHeader, strings.Join(parts, ","))
}

func (Baggage) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	header := carrier.Get(baggageHeader)
	if header == "" {
		return ctx
	}
	var members []baggage.Member
	for _, entry := range strings.Split(header, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		segs := strings.Split(entry, ";")
		kvPart := strings.TrimSpace(segs[0])
		key, value, ok := strings.Cut(kvPart, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		decoded, err := decodeBaggageValue(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		var metadata []string
		for _, seg := range segs[1:] {
			metadata = append(metadata, strings.TrimSpace(seg))
		}
		m, err := baggage.NewMember(key, decoded, metadata...)
		if err != nil {
			continue
		}
		members = append(members, m)
	}
	b, err := baggage.New(members...)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, b)
}

func (Baggage) Fields() []string {
	return []string{baggageHeader}
}

// encodeBaggageValue percent-encodes a baggage value, rendering spaces as
// '+' to match the compact form used across W3C baggage implementations.
func encodeBaggageValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "%20", "+")
}

func decodeBaggageValue(v string) (string, error) {
	return url.QueryUnescape(v)
}
