// Package kind defines the registered value kinds and their payload codecs.
//
// A payload is the raw byte representation stored in the payload arena. Each
// kind knows how to encode a Go value into a payload, how to order two
// payloads, and how to render one. The set is closed: tags that are not
// listed here are rejected by the index.
package kind

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/hupe1980/tagring/internal/tagptr"
)

// Registered tags. Head is reserved for structural nodes.
const (
	String  tagptr.Type = 0
	Integer tagptr.Type = 1
	Float   tagptr.Type = 2
)

const fixedWidth = 8

var endian = binary.LittleEndian

// Codec describes one registered kind.
type Codec struct {
	Tag  tagptr.Type
	Name string
	// Width is the exact payload length, or 0 for variable-length kinds.
	Width int
	// Compare orders two payloads of this kind.
	Compare func(a, b []byte) int
	// Output writes a human-readable rendering of a payload.
	Output func(w io.Writer, p []byte) error
}

var codecs = [...]Codec{
	{Tag: String, Name: "str", Compare: bytes.Compare, Output: outputString},
	{Tag: Integer, Name: "int", Width: fixedWidth, Compare: compareInt, Output: outputInt},
	{Tag: Float, Name: "float", Width: fixedWidth, Compare: compareFloat, Output: outputFloat},
}

// Registered returns the codecs in tag order.
func Registered() []Codec {
	out := make([]Codec, len(codecs))
	copy(out, codecs[:])
	return out
}

// Lookup returns the codec for tag.
func Lookup(tag tagptr.Type) (Codec, bool) {
	for _, c := range codecs {
		if c.Tag == tag {
			return c, true
		}
	}
	return Codec{}, false
}

// Name returns a display name for tag, including unregistered ones.
func Name(tag tagptr.Type) string {
	if c, ok := Lookup(tag); ok {
		return c.Name
	}
	if tag == tagptr.Head {
		return "head"
	}
	return "kind(" + strconv.Itoa(int(tag)) + ")"
}

// EncodeInt returns the payload of an Integer.
func EncodeInt(v int64) []byte {
	b := make([]byte, fixedWidth)
	endian.PutUint64(b, uint64(v))
	return b
}

// DecodeInt reads an Integer payload.
func DecodeInt(p []byte) int64 {
	return int64(endian.Uint64(p))
}

// EncodeFloat returns the payload of a Float.
func EncodeFloat(v float64) []byte {
	b := make([]byte, fixedWidth)
	endian.PutUint64(b, math.Float64bits(v))
	return b
}

// DecodeFloat reads a Float payload.
func DecodeFloat(p []byte) float64 {
	return math.Float64frombits(endian.Uint64(p))
}

func compareInt(a, b []byte) int {
	return cmp.Compare(DecodeInt(a), DecodeInt(b))
}

func compareFloat(a, b []byte) int {
	return cmp.Compare(DecodeFloat(a), DecodeFloat(b))
}

func outputString(w io.Writer, p []byte) error {
	_, err := fmt.Fprintf(w, "str: %s\n", p)
	return err
}

func outputInt(w io.Writer, p []byte) error {
	_, err := fmt.Fprintf(w, "int: %d\n", DecodeInt(p))
	return err
}

func outputFloat(w io.Writer, p []byte) error {
	_, err := fmt.Fprintf(w, "float: %s\n", strconv.FormatFloat(DecodeFloat(p), 'g', -1, 64))
	return err
}
