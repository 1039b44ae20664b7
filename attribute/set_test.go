package attribute

import "testing"

func TestEmptySetsAreEquivalent(t *testing.T) {
	a := Empty()
	b := NewSet()
	c := NewSet(KeyValue{}) // an undefined key contributes nothing
	if a.Equivalent() != b.Equivalent() || b.Equivalent() != c.Equivalent() {
		t.Fatalf("empty sets must all be equivalent: %q %q %q", a.Equivalent(), b.Equivalent(), c.Equivalent())
	}
	if a.Len() != 0 {
		t.Fatalf("expected len 0, got %d", a.Len())
	}
}

func TestSetOrderIndependent(t *testing.T) {
	s1 := NewSet(String("route", "a"), Int("status", 200))
	s2 := NewSet(Int("status", 200), String("route", "a"))
	if s1.Equivalent() != s2.Equivalent() {
		t.Fatalf("construction order should not affect equivalence: %q vs %q", s1.Equivalent(), s2.Equivalent())
	}
}

func TestSetLastWriteWins(t *testing.T) {
	s := NewSet(String("route", "a"), String("route", "b"))
	if s.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", s.Len())
	}
	kvs := s.ToSlice()
	if len(kvs) != 1 || kvs[0].Value.AsString() != "b" {
		t.Fatalf("expected last write (b) to win, got %+v", kvs)
	}
}

func TestSetDistinguishesValues(t *testing.T) {
	s1 := NewSet(Int("n", 1))
	s2 := NewSet(Int("n", 2))
	if s1.Equivalent() == s2.Equivalent() {
		t.Fatalf("different values must not be equivalent")
	}
}
