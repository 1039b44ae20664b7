package baggage

import "context"

type baggageKeyType struct{}

var baggageKey baggageKeyType

// ContextWithBaggage derives a context carrying b as the current baggage.
func ContextWithBaggage(ctx context.Context, b Baggage) context.Context {
	return context.WithValue(ctx, baggageKey, b)
}

// FromContext extracts the current Baggage, or an empty Baggage if none is
// present.
func FromContext(ctx context.Context) Baggage {
	if b, ok := ctx.Value(baggageKey).(Baggage); ok {
		return b
	}
	empty, _ := New()
	return empty
}
