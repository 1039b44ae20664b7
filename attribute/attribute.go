// Package attribute provides the typed key/value pairs attached to spans,
// log records, and metric measurements.
package attribute

import "fmt"

// Type identifies the kind of value held by a KeyValue.
type Type int

const (
	INVALID Type = iota
	BOOL
	INT64
	FLOAT64
	STRING
	BOOLSLICE
	INT64SLICE
	FLOAT64SLICE
	STRINGSLICE
)

// Key is the key part of a key/value pair. Keys must be non-empty.
type Key string

// Value is the value part of a key/value pair.
type Value struct {
	vtype    Type
	numeric  uint64
	stringly string
	slice    interface{}
}

// KeyValue is a single attribute.
type KeyValue struct {
	Key   Key
	Value Value
}

func (k Key) Bool(v bool) KeyValue         { return KeyValue{k, BoolValue(v)} }
func (k Key) Int64(v int64) KeyValue       { return KeyValue{k, Int64Value(v)} }
func (k Key) Int(v int) KeyValue           { return KeyValue{k, Int64Value(int64(v))} }
func (k Key) Float64(v float64) KeyValue   { return KeyValue{k, Float64Value(v)} }
func (k Key) String(v string) KeyValue     { return KeyValue{k, StringValue(v)} }
func (k Key) BoolSlice(v []bool) KeyValue  { return KeyValue{k, BoolSliceValue(v)} }
func (k Key) Int64Slice(v []int64) KeyValue {
	return KeyValue{k, Int64SliceValue(v)}
}
func (k Key) Float64Slice(v []float64) KeyValue {
	return KeyValue{k, Float64SliceValue(v)}
}
func (k Key) StringSlice(v []string) KeyValue {
	return KeyValue{k, StringSliceValue(v)}
}

// Defined reports whether the key is non-empty.
func (k Key) Defined() bool { return len(k) != 0 }

func boolToUint64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func BoolValue(v bool) Value { return Value{vtype: BOOL, numeric: boolToUint64(v)} }
func Int64Value(v int64) Value {
	return Value{vtype: INT64, numeric: uint64(v)}
}
func Float64Value(v float64) Value {
	return Value{vtype: FLOAT64, numeric: float64ToRaw(v)}
}
func StringValue(v string) Value { return Value{vtype: STRING, stringly: v} }
func BoolSliceValue(v []bool) Value {
	cp := make([]bool, len(v))
	copy(cp, v)
	return Value{vtype: BOOLSLICE, slice: cp}
}
func Int64SliceValue(v []int64) Value {
	cp := make([]int64, len(v))
	copy(cp, v)
	return Value{vtype: INT64SLICE, slice: cp}
}
func Float64SliceValue(v []float64) Value {
	cp := make([]float64, len(v))
	copy(cp, v)
	return Value{vtype: FLOAT64SLICE, slice: cp}
}
func StringSliceValue(v []string) Value {
	cp := make([]string, len(v))
	copy(cp, v)
	return Value{vtype: STRINGSLICE, slice: cp}
}

// Bool, Int, Int64, Float64, String are convenience constructors for
// top-level KeyValue creation: attribute.String("key", "value").
func Bool(k string, v bool) KeyValue       { return Key(k).Bool(v) }
func Int(k string, v int) KeyValue         { return Key(k).Int(v) }
func Int64(k string, v int64) KeyValue     { return Key(k).Int64(v) }
func Float64(k string, v float64) KeyValue { return Key(k).Float64(v) }
func String(k, v string) KeyValue          { return Key(k).String(v) }
func BoolSlice(k string, v []bool) KeyValue {
	return Key(k).BoolSlice(v)
}
func Int64Slice(k string, v []int64) KeyValue {
	return Key(k).Int64Slice(v)
}
func Float64Slice(k string, v []float64) KeyValue {
	return Key(k).Float64Slice(v)
}
func StringSlice(k string, v []string) KeyValue {
	return Key(k).StringSlice(v)
}

// Type returns the value's type.
func (v Value) Type() Type { return v.vtype }

func (v Value) AsBool() bool          { return v.numeric == 1 }
func (v Value) AsInt64() int64        { return int64(v.numeric) }
func (v Value) AsFloat64() float64    { return rawToFloat64(v.numeric) }
func (v Value) AsString() string      { return v.stringly }
func (v Value) AsBoolSlice() []bool   { return v.slice.([]bool) }
func (v Value) AsInt64Slice() []int64 { return v.slice.([]int64) }
func (v Value) AsFloat64Slice() []float64 {
	return v.slice.([]float64)
}
func (v Value) AsStringSlice() []string { return v.slice.([]string) }

// Emit renders the value as a human-readable string, used as the fallback
// stringValue mapping when transforming attributes to OTLP AnyValue.
func (v Value) Emit() string {
	switch v.vtype {
	case BOOL:
		return fmt.Sprintf("%t", v.AsBool())
	case INT64:
		return fmt.Sprintf("%d", v.AsInt64())
	case FLOAT64:
		return fmt.Sprintf("%g", v.AsFloat64())
	case STRING:
		return v.stringly
	case BOOLSLICE:
		return fmt.Sprintf("%v", v.AsBoolSlice())
	case INT64SLICE:
		return fmt.Sprintf("%v", v.AsInt64Slice())
	case FLOAT64SLICE:
		return fmt.Sprintf("%v", v.AsFloat64Slice())
	case STRINGSLICE:
		return fmt.Sprintf("%v", v.AsStringSlice())
	default:
		return "<invalid>"
	}
}
