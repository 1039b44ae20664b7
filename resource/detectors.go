package resource

import (
	"context"
	"os"
	"runtime"

	"github.com/google/uuid"

	"github.com/dartastic/otelcore-go/attribute"
)

// Semantic attribute keys this package knows how to populate. Kept as a
// small local set rather than importing a semconv package, since nothing
// else in this core needs the rest of the semantic-conventions surface.
const (
	AttributeHostName        = attribute.Key("host.name")
	AttributeOSType           = attribute.Key("os.type")
	AttributeProcessPID       = attribute.Key("process.pid")
	AttributeProcessExecName  = attribute.Key("process.executable.name")
	AttributeServiceInstance  = attribute.Key("service.instance.id")
	AttributeServiceName      = attribute.Key("service.name")
	AttributeServiceNamespace = attribute.Key("service.namespace")
	AttributeServiceVersion   = attribute.Key("service.version")
)

// Host detects the host.name attribute.
func Host(ctx context.Context) (*Resource, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Empty(), nil
	}
	return NewSchemaless(attribute.KeyValue{Key: AttributeHostName, Value: attribute.StringValue(hostname)}), nil
}

// HostDetector adapts Host to the Detector interface.
var HostDetector Detector = DetectorFunc(Host)

// OS detects the os.type attribute from the Go runtime's GOOS.
func OS(ctx context.Context) (*Resource, error) {
	return NewSchemaless(attribute.KeyValue{Key: AttributeOSType, Value: attribute.StringValue(runtime.GOOS)}), nil
}

// OSDetector adapts OS to the Detector interface.
var OSDetector Detector = DetectorFunc(OS)

// Process detects process.pid and process.executable.name.
func Process(ctx context.Context) (*Resource, error) {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return NewSchemaless(
		attribute.KeyValue{Key: AttributeProcessPID, Value: attribute.Int64Value(int64(os.Getpid()))},
		attribute.KeyValue{Key: AttributeProcessExecName, Value: attribute.StringValue(exe)},
	), nil
}

// ProcessDetector adapts Process to the Detector interface.
var ProcessDetector Detector = DetectorFunc(Process)

// ServiceInstanceID detects a random service.instance.id, generated once
// per process per spec.md §4.9 (an instance identity, not a persistent one).
func ServiceInstanceID(ctx context.Context) (*Resource, error) {
	return NewSchemaless(attribute.KeyValue{
		Key:   AttributeServiceInstance,
		Value: attribute.StringValue(processInstanceID),
	}), nil
}

var processInstanceID = uuid.NewString()

// ServiceInstanceIDDetector adapts ServiceInstanceID to the Detector
// interface.
var ServiceInstanceIDDetector Detector = DetectorFunc(ServiceInstanceID)

// WithService builds the Resource layer describing the user-declared
// service identity.
func WithService(name, namespace, version string) *Resource {
	kvs := []attribute.KeyValue{{Key: AttributeServiceName, Value: attribute.StringValue(name)}}
	if namespace != "" {
		kvs = append(kvs, attribute.KeyValue{Key: AttributeServiceNamespace, Value: attribute.StringValue(namespace)})
	}
	if version != "" {
		kvs = append(kvs, attribute.KeyValue{Key: AttributeServiceVersion, Value: attribute.StringValue(version)})
	}
	return NewSchemaless(kvs...)
}

// Default detects the standard platform layer (host, OS, process, instance
// id), the bottom-precedence layer per spec.md §4.9's platform < service <
// tenant < user ordering.
func Default(ctx context.Context) (*Resource, error) {
	return Detect(ctx, HostDetector, OSDetector, ProcessDetector, ServiceInstanceIDDetector)
}
