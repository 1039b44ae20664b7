package baggage

import (
	"context"
	"testing"
)

func TestNewMemberRejectsEmptyKey(t *testing.T) {
	if _, err := NewMember("", "v"); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestBaggageSetAndGetMember(t *testing.T) {
	m1, err := NewMember("user.id", "u 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := NewMember("tenant", "acme", "source=mobile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := New(m1, m2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", b.Len())
	}
	if b.Member("tenant").Metadata() != "source=mobile" {
		t.Fatalf("unexpected metadata: %q", b.Member("tenant").Metadata())
	}
}

func TestBaggageOverridesOnDuplicateKey(t *testing.T) {
	m1, _ := NewMember("k", "v1")
	m2, _ := NewMember("k", "v2")
	b, err := New(m1, m2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Len() != 1 || b.Member("k").Value() != "v2" {
		t.Fatalf("expected override to v2, got %+v", b.Member("k"))
	}
}

func TestBaggageContextRoundTrip(t *testing.T) {
	m, _ := NewMember("k", "v")
	b, _ := New(m)
	ctx := ContextWithBaggage(context.Background(), b)
	got := FromContext(ctx)
	if !got.Equal(b) {
		t.Fatalf("expected round-tripped baggage to equal original")
	}
}

func TestBaggageFromEmptyContext(t *testing.T) {
	got := FromContext(context.Background())
	if got.Len() != 0 {
		t.Fatalf("expected empty baggage from bare context")
	}
}

func TestBaggageEqualIgnoresOrder(t *testing.T) {
	m1, _ := NewMember("a", "1")
	m2, _ := NewMember("b", "2")
	b1, _ := New(m1, m2)
	b2, _ := New(m2, m1)
	if !b1.Equal(b2) {
		t.Fatalf("expected baggage equality independent of construction order")
	}
}
