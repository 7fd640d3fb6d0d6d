// Package frozen provides deeply immutable JSON values.
//
// Freeze converts a decoded JSON document into a Value. A Value has no
// method that adds, replaces or removes anything at any depth, so once a
// config is frozen no caller can alter it. Export hands out a fresh copy
// as plain Go values for callers that need to build a modified document.
package frozen

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the JSON type held by a Value.
type Kind uint8

const (
	Undefined Kind = iota // zero Value; nothing was loaded
	Null
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{"undefined", "null", "bool", "number", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is an immutable JSON value. The zero Value is Undefined.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  map[string]Value
	keys []string // sorted keys of obj
}

// Freeze converts v into a Value. Nested maps and slices are frozen first,
// then the container holding them. v must be acyclic.
//
// Besides the shapes produced by encoding/json, Go integer types and
// json.Number are accepted. Anything else is normalized through a JSON
// round trip; values that cannot be encoded freeze to Undefined.
func Freeze(v any) Value {
	switch tv := v.(type) {
	case nil:
		return Value{kind: Null}
	case Value:
		return tv
	case bool:
		return Value{kind: Bool, b: tv}
	case float64:
		return Value{kind: Number, n: tv}
	case float32:
		return Value{kind: Number, n: float64(tv)}
	case int:
		return Value{kind: Number, n: float64(tv)}
	case int64:
		return Value{kind: Number, n: float64(tv)}
	case int32:
		return Value{kind: Number, n: float64(tv)}
	case uint:
		return Value{kind: Number, n: float64(tv)}
	case uint64:
		return Value{kind: Number, n: float64(tv)}
	case json.Number:
		f, err := tv.Float64()
		if err != nil {
			return Value{}
		}
		return Value{kind: Number, n: f}
	case string:
		return Value{kind: String, s: tv}
	case []any:
		arr := make([]Value, len(tv))
		for i, e := range tv {
			arr[i] = Freeze(e)
		}
		return Value{kind: Array, arr: arr}
	case map[string]any:
		obj := make(map[string]Value, len(tv))
		keys := make([]string, 0, len(tv))
		for k, e := range tv {
			obj[k] = Freeze(e)
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return Value{kind: Object, obj: obj, keys: keys}
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return Value{}
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return Value{}
		}
		return Freeze(generic)
	}
}

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is the zero Value.
func (v Value) IsUndefined() bool { return v.kind == Undefined }

// IsNull reports whether v holds JSON null.
func (v Value) IsNull() bool { return v.kind == Null }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == Bool }

// AsFloat returns the number held by v.
func (v Value) AsFloat() (float64, bool) { return v.n, v.kind == Number }

// AsInt returns the number held by v when it is integral.
func (v Value) AsInt() (int64, bool) {
	if v.kind != Number || v.n != float64(int64(v.n)) {
		return 0, false
	}
	return int64(v.n), true
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == String }

// Len returns the number of elements of an array or entries of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	}
	return 0
}

// Get returns the entry named key of an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	e, ok := v.obj[key]
	return e, ok
}

// Has reports whether v is an object with an entry named key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Index returns element i of an array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Keys returns the sorted keys of an object. The slice is a copy.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Range calls fn for each object entry in key order, or each array element
// with its index as key, until fn returns false.
func (v Value) Range(fn func(key string, e Value) bool) {
	switch v.kind {
	case Object:
		for _, k := range v.keys {
			if !fn(k, v.obj[k]) {
				return
			}
		}
	case Array:
		for i, e := range v.arr {
			if !fn(strconv.Itoa(i), e) {
				return
			}
		}
	}
}

// Lookup walks a dot-separated path such as "db.hosts.0". Numeric
// segments index arrays.
func (v Value) Lookup(path string) (Value, bool) {
	if path == "" {
		return v, !v.IsUndefined()
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		var ok bool
		switch cur.kind {
		case Object:
			cur, ok = cur.Get(seg)
		case Array:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return Value{}, false
			}
			cur, ok = cur.Index(i)
		}
		if !ok {
			return Value{}, false
		}
	}
	return cur, true
}

// Export returns a deep copy of v as plain Go values: map[string]any,
// []any, string, float64, bool or nil. Undefined exports as nil.
func (v Value) Export() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		return v.n
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Export()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.Export()
		}
		return out
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Object keys are written sorted.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Undefined, Null:
		buf.WriteString("null")
	case Object:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.obj[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(v.Export())
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// String renders v as compact JSON.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<invalid>"
	}
	return string(b)
}
