package tagring

import (
	"bytes"
	"strconv"

	"github.com/hupe1980/tagring/internal/kind"
	"github.com/hupe1980/tagring/internal/tagptr"
)

// Kind identifies the type partition a value belongs to.
type Kind uint8

// Registered kinds.
const (
	KindString Kind = Kind(kind.String)
	KindInt    Kind = Kind(kind.Integer)
	KindFloat  Kind = Kind(kind.Float)
)

// Kinds returns every registered kind in partition order.
func Kinds() []Kind {
	codecs := kind.Registered()
	out := make([]Kind, len(codecs))
	for i, c := range codecs {
		out[i] = Kind(c.Tag)
	}
	return out
}

// String returns the kind's short name ("str", "int", "float").
func (k Kind) String() string {
	if k >= tagptr.NumTypes {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kind.Name(tagptr.Type(k))
}

// Registered reports whether the index keeps a partition for k.
func (k Kind) Registered() bool {
	if k >= tagptr.NumTypes {
		return false
	}
	_, ok := kind.Lookup(tagptr.Type(k))
	return ok
}

// Value is a typed value. The zero Value is the null value; Insert rejects it.
type Value struct {
	kind  Kind
	data  []byte
	valid bool
}

// String returns a String value.
func String(s string) Value {
	return Value{kind: KindString, data: []byte(s), valid: true}
}

// Int returns an Integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, data: kind.EncodeInt(i), valid: true}
}

// Float returns a Float value.
func Float(f float64) Value {
	return Value{kind: KindFloat, data: kind.EncodeFloat(f), valid: true}
}

// Raw returns a value of kind k holding a copy of data as its payload.
// Nothing is checked until the value is inserted.
func Raw(k Kind, data []byte) Value {
	return Value{kind: k, data: bytes.Clone(data), valid: true}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the null value.
func (v Value) IsZero() bool {
	return !v.valid
}

// Bytes returns a copy of the value's payload.
func (v Value) Bytes() []byte {
	return bytes.Clone(v.data)
}

// Len returns the payload length in bytes.
func (v Value) Len() int {
	return len(v.data)
}

// AsString returns the value of a String.
func (v Value) AsString() (string, bool) {
	if !v.valid || v.kind != KindString {
		return "", false
	}
	return string(v.data), true
}

// AsInt returns the value of an Integer.
func (v Value) AsInt() (int64, bool) {
	if !v.valid || v.kind != KindInt || len(v.data) != 8 {
		return 0, false
	}
	return kind.DecodeInt(v.data), true
}

// AsFloat returns the value of a Float.
func (v Value) AsFloat() (float64, bool) {
	if !v.valid || v.kind != KindFloat || len(v.data) != 8 {
		return 0, false
	}
	return kind.DecodeFloat(v.data), true
}

func (v Value) String() string {
	if !v.valid {
		return "<null>"
	}
	if s, ok := v.AsString(); ok {
		return strconv.Quote(s)
	}
	if i, ok := v.AsInt(); ok {
		return strconv.FormatInt(i, 10)
	}
	if f, ok := v.AsFloat(); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v.kind.String() + "(" + strconv.Itoa(len(v.data)) + " bytes)"
}

// Compare orders two values of the same registered kind the way the index
// does. Values of different kinds order by kind.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	if a.kind >= tagptr.NumTypes {
		return bytes.Compare(a.data, b.data)
	}
	c, ok := kind.Lookup(tagptr.Type(a.kind))
	if !ok || (c.Width > 0 && (len(a.data) != c.Width || len(b.data) != c.Width)) {
		return bytes.Compare(a.data, b.data)
	}
	return c.Compare(a.data, b.data)
}
