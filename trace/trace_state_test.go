package trace

import "testing"

func TestTraceStateParseAndString(t *testing.T) {
	ts := ParseTraceState("rojo=00f067aa0ba902b7,congo=t61rcWkgMzE")
	if ts.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", ts.Len())
	}
	if ts.Get("rojo") != "00f067aa0ba902b7" {
		t.Fatalf("unexpected value for rojo: %s", ts.Get("rojo"))
	}
	if ts.String() != "rojo=00f067aa0ba902b7,congo=t61rcWkgMzE" {
		t.Fatalf("unexpected serialization: %s", ts.String())
	}
}

func TestTraceStateInsertMovesToFront(t *testing.T) {
	ts := ParseTraceState("rojo=1,congo=2")
	ts = ts.Insert("congo", "3")
	if ts.String() != "congo=3,rojo=1" {
		t.Fatalf("expected updated key to move to front, got %s", ts.String())
	}
}

func TestTraceStateCapsAt32Entries(t *testing.T) {
	header := ""
	for i := 0; i < 40; i++ {
		if i > 0 {
			header += ","
		}
		header += string(rune('a'+i%26)) + "=v"
	}
	ts := ParseTraceState(header)
	if ts.Len() > MaxTraceStateEntries {
		t.Fatalf("expected at most %d entries, got %d", MaxTraceStateEntries, ts.Len())
	}
}

func TestTraceStateEmptyHeader(t *testing.T) {
	ts := ParseTraceState("")
	if ts.Len() != 0 || ts.String() != "" {
		t.Fatalf("expected empty trace state")
	}
}
