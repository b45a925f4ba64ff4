// Package value implements the serializer capability consumed by the
// engine. It provides a schemaless tagged-sum tree (Value) for dynamic,
// nested data, and a plain byte-string codec for raw payloads. Both are
// deterministic: Serialize(Deserialize(b)) round-trips byte-exact, which
// the frame checksum contract requires.
//
// Grounded on the teacher's ChunkMetadata/DNSManifest structs
// (internal/chunker/chunker.go, internal/chunker/dns_encoder.go), which mix
// fixed binary fields with a JSON-tagged manifest type; the JSON habit is
// lifted directly from DNSManifest.
package value

import (
	"encoding/json"
	"fmt"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

// Value is a dynamic, JSON-like tree: nil, bool, int, float, string, an
// ordered list, or a string-keyed map of further Values.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

func Nil() Value                   { return Value{kind: KindNil} }
func Bool(b bool) Value            { return Value{kind: KindBool, b: b} }
func Int(i int64) Value            { return Value{kind: KindInt, i: i} }
func Float(f float64) Value        { return Value{kind: KindFloat, f: f} }
func String(s string) Value        { return Value{kind: KindString, s: s} }
func List(items ...Value) Value    { return Value{kind: KindList, list: items} }
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

func (v Value) Kind() Kind                 { return v.kind }
func (v Value) BoolValue() bool            { return v.b }
func (v Value) IntValue() int64            { return v.i }
func (v Value) FloatValue() float64        { return v.f }
func (v Value) StringValue() string        { return v.s }
func (v Value) ListValue() []Value         { return v.list }
func (v Value) MapValue() map[string]Value { return v.m }

// Equal reports deep, kind-aware equality between two Values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, item := range v.m {
			o, ok := other.m[k]
			if !ok || !item.Equal(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// wireValue is the canonical on-the-wire JSON shape. encoding/json sorts
// map keys when marshaling, which is what makes Serialize deterministic
// for KindMap values.
type wireValue struct {
	Kind  string               `json:"kind"`
	Bool  bool                 `json:"bool,omitempty"`
	Int   int64                `json:"int,omitempty"`
	Float float64              `json:"float,omitempty"`
	Str   string               `json:"str,omitempty"`
	List  []wireValue          `json:"list,omitempty"`
	Map   map[string]wireValue `json:"map,omitempty"`
}

func kindName(k Kind) (string, error) {
	switch k {
	case KindNil:
		return "nil", nil
	case KindBool:
		return "bool", nil
	case KindInt:
		return "int", nil
	case KindFloat:
		return "float", nil
	case KindString:
		return "string", nil
	case KindList:
		return "list", nil
	case KindMap:
		return "map", nil
	default:
		return "", fmt.Errorf("value: unknown kind %d", int(k))
	}
}

func kindFromName(s string) (Kind, error) {
	switch s {
	case "nil":
		return KindNil, nil
	case "bool":
		return KindBool, nil
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "string":
		return KindString, nil
	case "list":
		return KindList, nil
	case "map":
		return KindMap, nil
	default:
		return 0, fmt.Errorf("value: unknown wire kind %q", s)
	}
}

func toWire(v Value) (wireValue, error) {
	name, err := kindName(v.kind)
	if err != nil {
		return wireValue{}, err
	}
	w := wireValue{Kind: name}
	switch v.kind {
	case KindBool:
		w.Bool = v.b
	case KindInt:
		w.Int = v.i
	case KindFloat:
		w.Float = v.f
	case KindString:
		w.Str = v.s
	case KindList:
		w.List = make([]wireValue, len(v.list))
		for i, item := range v.list {
			iw, err := toWire(item)
			if err != nil {
				return wireValue{}, err
			}
			w.List[i] = iw
		}
	case KindMap:
		w.Map = make(map[string]wireValue, len(v.m))
		for k, item := range v.m {
			iw, err := toWire(item)
			if err != nil {
				return wireValue{}, err
			}
			w.Map[k] = iw
		}
	}
	return w, nil
}

func fromWire(w wireValue) (Value, error) {
	k, err := kindFromName(w.Kind)
	if err != nil {
		return Value{}, err
	}
	switch k {
	case KindNil:
		return Nil(), nil
	case KindBool:
		return Bool(w.Bool), nil
	case KindInt:
		return Int(w.Int), nil
	case KindFloat:
		return Float(w.Float), nil
	case KindString:
		return String(w.Str), nil
	case KindList:
		items := make([]Value, len(w.List))
		for i, item := range w.List {
			iv, err := fromWire(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return List(items...), nil
	case KindMap:
		m := make(map[string]Value, len(w.Map))
		for key, item := range w.Map {
			iv, err := fromWire(item)
			if err != nil {
				return Value{}, err
			}
			m[key] = iv
		}
		return Map(m), nil
	default:
		return Value{}, fmt.Errorf("value: unhandled kind %d", int(k))
	}
}

// Serialize renders v as canonical, deterministic JSON.
func Serialize(v Value) ([]byte, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, fmt.Errorf("value: serialize: %w", err)
	}
	return json.Marshal(w)
}

// Deserialize parses data produced by Serialize back into a Value.
func Deserialize(data []byte) (Value, error) {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return Value{}, fmt.Errorf("value: deserialize: %w", err)
	}
	return fromWire(w)
}

// Codec adapts the Value tree to the engine's Serializer capability set,
// for application values that are dynamic, nested structures.
type Codec struct{}

func (Codec) Serialize(v any) ([]byte, error) {
	val, ok := v.(Value)
	if !ok {
		return nil, fmt.Errorf("value: Codec expects a value.Value, got %T", v)
	}
	return Serialize(val)
}

func (Codec) Deserialize(data []byte) (any, error) {
	return Deserialize(data)
}

// StringCodec is an identity pass-through Serializer for raw byte-string
// payloads: Serialize/Deserialize never re-encode the bytes, so any byte
// sequence round-trips exactly, including payloads that aren't valid UTF-8.
type StringCodec struct{}

func (StringCodec) Serialize(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("value: StringCodec expects a string, got %T", v)
	}
	return []byte(s), nil
}

func (StringCodec) Deserialize(data []byte) (any, error) {
	return string(data), nil
}
