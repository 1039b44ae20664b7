package resource

import (
	"context"
	"testing"

	"github.com/dartastic/otelcore-go/attribute"
)

func TestMergeUserAttributesWinOverPlatform(t *testing.T) {
	platform := NewSchemaless(attribute.String("host.name", "platform-host"), attribute.String("os.type", "linux"))
	user := NewSchemaless(attribute.String("host.name", "user-override"))

	merged := Merge(platform, user)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range merged.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs["host.name"].AsString() != "user-override" {
		t.Fatalf("expected user attribute to win, got %q", attrs["host.name"].AsString())
	}
	if attrs["os.type"].AsString() != "linux" {
		t.Fatalf("expected platform-only attribute to survive merge, got %q", attrs["os.type"].AsString())
	}
}

func TestMergeSchemaURLPrefersNonEmpty(t *testing.T) {
	a := New("https://a.example/schema")
	b := Empty()
	merged := Merge(a, b)
	if merged.SchemaURL() != "https://a.example/schema" {
		t.Fatalf("expected a's schema url to survive merge with empty b, got %q", merged.SchemaURL())
	}

	merged2 := Merge(a, New("https://b.example/schema"))
	if merged2.SchemaURL() != "https://b.example/schema" {
		t.Fatalf("expected b's schema url to win when non-empty, got %q", merged2.SchemaURL())
	}
}

func TestDetectRunsDetectorsInPrecedenceOrder(t *testing.T) {
	platform := DetectorFunc(func(ctx context.Context) (*Resource, error) {
		return NewSchemaless(attribute.String("k", "platform")), nil
	})
	userLayer := DetectorFunc(func(ctx context.Context) (*Resource, error) {
		return NewSchemaless(attribute.String("k", "user")), nil
	})

	r, err := Detect(context.Background(), platform, userLayer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attrs := r.Attributes()
	if len(attrs) != 1 || attrs[0].Value.AsString() != "user" {
		t.Fatalf("expected later detector to win, got %+v", attrs)
	}
}

func TestEmptyResourceEqual(t *testing.T) {
	if !Empty().Equal(Empty()) {
		t.Fatalf("expected two empty resources to be equal")
	}
}

func TestDefaultDetectorPopulatesServiceInstanceID(t *testing.T) {
	r, err := Default(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, kv := range r.Attributes() {
		if kv.Key == AttributeServiceInstance && kv.Value.AsString() != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected service.instance.id to be populated, got %+v", r.Attributes())
	}
}
