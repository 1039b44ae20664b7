package attribute

import (
	"sort"
	"strconv"
	"strings"
)

// Set is an immutable, canonically ordered collection of KeyValues. Two Sets
// built from the same key/value content compare equal and hash equal
// regardless of construction order or path — metric aggregation relies on
// this for grouping by attribute set (spec.md §3, §8).
type Set struct {
	encoded string
}

// Empty returns the canonical empty Set. It is a valid, first-class key.
func Empty() Set { return Set{} }

// NewSet canonicalizes kvs: sorted by key, last write wins on duplicate
// keys, then encoded into a stable string used for both equality and
// map-keying.
func NewSet(kvs ...KeyValue) Set {
	if len(kvs) == 0 {
		return Set{}
	}
	dedup := make(map[Key]KeyValue, len(kvs))
	for _, kv := range kvs {
		if !kv.Key.Defined() {
			continue
		}
		dedup[kv.Key] = kv
	}
	if len(dedup) == 0 {
		return Set{}
	}
	keys := make([]string, 0, len(dedup))
	for k := range dedup {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		kv := dedup[Key(k)]
		b.WriteString(k)
		b.WriteByte('\x1e')
		b.WriteString(encodeValue(kv.Value))
	}
	return Set{encoded: b.String()}
}

func encodeValue(v Value) string {
	switch v.vtype {
	case BOOL:
		return "b:" + strconv.FormatBool(v.AsBool())
	case INT64:
		return "i:" + strconv.FormatInt(v.AsInt64(), 10)
	case FLOAT64:
		return "f:" + strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)
	case STRING:
		return "s:" + v.stringly
	case BOOLSLICE:
		parts := make([]string, len(v.AsBoolSlice()))
		for i, e := range v.AsBoolSlice() {
			parts[i] = strconv.FormatBool(e)
		}
		return "bs:" + strings.Join(parts, ",")
	case INT64SLICE:
		parts := make([]string, len(v.AsInt64Slice()))
		for i, e := range v.AsInt64Slice() {
			parts[i] = strconv.FormatInt(e, 10)
		}
		return "is:" + strings.Join(parts, ",")
	case FLOAT64SLICE:
		parts := make([]string, len(v.AsFloat64Slice()))
		for i, e := range v.AsFloat64Slice() {
			parts[i] = strconv.FormatFloat(e, 'g', -1, 64)
		}
		return "fs:" + strings.Join(parts, ",")
	case STRINGSLICE:
		return "ss:" + strings.Join(v.AsStringSlice(), ",")
	default:
		return "?:"
	}
}

// Equivalent returns an opaque, comparable key for use as a map key —
// equal Sets produce equal Equivalent values.
func (s Set) Equivalent() string { return s.encoded }

// Len reports the number of distinct keys encoded (0 for the empty set).
func (s Set) Len() int {
	if s.encoded == "" {
		return 0
	}
	return strings.Count(s.encoded, "\x1f") + 1
}

// ToSlice decodes the set back into a stable, key-sorted slice of
// KeyValues. Only the key names survive decoding losslessly for string
// values containing the internal separators is guaranteed when values were
// built through the Key.* constructors (no embedded \x1e/\x1f).
func (s Set) ToSlice() []KeyValue {
	if s.encoded == "" {
		return nil
	}
	entries := strings.Split(s.encoded, "\x1f")
	out := make([]KeyValue, 0, len(entries))
	for _, e := range entries {
		parts := strings.SplitN(e, "\x1e", 2)
		if len(parts) != 2 {
			continue
		}
		out = append(out, decodeEntry(parts[0], parts[1]))
	}
	return out
}

func decodeEntry(key, enc string) KeyValue {
	k := Key(key)
	if len(enc) < 2 {
		return KeyValue{k, StringValue(enc)}
	}
	tag, rest, _ := strings.Cut(enc, ":")
	switch tag {
	case "b":
		return k.Bool(rest == "true")
	case "i":
		n, _ := strconv.ParseInt(rest, 10, 64)
		return k.Int64(n)
	case "f":
		f, _ := strconv.ParseFloat(rest, 64)
		return k.Float64(f)
	case "s":
		return k.String(rest)
	default:
		return k.String(rest)
	}
}
