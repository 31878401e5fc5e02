// Package tagptr packs a 4-bit type tag and a 12-bit size into the unused
// high bits of a 64-bit address word.
//
// Bit Layout:
//
//	[0:48]  Address (48 bits) -> payload arena offset
//	[48:60] Size    (12 bits) -> payload length, or element count for range markers
//	[60:64] Type    (4 bits)  -> registered kind tag or Head
//
// The address half is never interpreted here; it is whatever the caller
// stored, as long as it leaves the top 16 bits clear.
package tagptr

import (
	"errors"
	"fmt"
)

const (
	// AddrBits is the number of low bits available for the address.
	AddrBits = 48
	// AddrMask selects the address bits of a word.
	AddrMask = (1 << AddrBits) - 1

	sizeBits  = 12
	sizeShift = AddrBits
	typeShift = AddrBits + sizeBits

	// MaxSize is the largest value the size field can hold.
	MaxSize = (1 << sizeBits) - 1
	// NumTypes is the number of distinct type tags.
	NumTypes = 16
)

// Head is the reserved tag of structural nodes. It never marks a real value.
const Head Type = NumTypes - 1

// ErrAddressOverflow is returned when an address uses its top 16 bits.
var ErrAddressOverflow = errors.New("tagptr: address exceeds 48 bits")

// Type is a 4-bit type tag.
type Type uint8

// Word is an address with its type tag and size folded into the top 16 bits.
type Word uint64

// Encode packs addr, t and size into a Word. t is truncated to 4 bits and
// size to 12 bits.
func Encode(addr uint64, t Type, size uint16) (Word, error) {
	if addr&^AddrMask != 0 {
		return 0, fmt.Errorf("%w: %#x", ErrAddressOverflow, addr)
	}
	return pack(addr, t, size), nil
}

func pack(addr uint64, t Type, size uint16) Word {
	params := uint64(t&(NumTypes-1))<<sizeBits | uint64(size&MaxSize)
	return Word(addr | params<<sizeShift)
}

// Type returns the 4-bit type tag.
func (w Word) Type() Type {
	return Type(uint64(w) >> typeShift)
}

// Size returns the 12-bit size field.
func (w Word) Size() uint16 {
	return uint16(uint64(w)>>sizeShift) & MaxSize
}

// Strip returns the address with the tag bits cleared.
func (w Word) Strip() uint64 {
	return uint64(w) & AddrMask
}

// WithSize returns w with its size field replaced. The address and type are
// kept.
func (w Word) WithSize(size uint16) Word {
	return pack(w.Strip(), w.Type(), size)
}

// IsHead reports whether w carries the reserved Head tag.
func (w Word) IsHead() bool {
	return w.Type() == Head
}

func (w Word) String() string {
	return fmt.Sprintf("Word{addr: %#x, type: %d, size: %d}", w.Strip(), w.Type(), w.Size())
}
