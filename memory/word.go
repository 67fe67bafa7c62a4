package memory

import (
	"fmt"
)

// Word describes the width of a single memory cell.
type Word struct {
	Bits  int    // Total bits in the word.
	Bytes int    // Total bytes in the word.
	Mask  uint32 // Mask of the valid bits of a value.
}

var (
	WORD_8  = Word{Bits: 8, Bytes: 1, Mask: 0x0000_00ff}
	WORD_16 = Word{Bits: 16, Bytes: 2, Mask: 0x0000_ffff}
	WORD_24 = Word{Bits: 24, Bytes: 3, Mask: 0x00ff_ffff}
	WORD_32 = Word{Bits: 32, Bytes: 4, Mask: 0xffff_ffff}
)

// Supported word sizes, smallest first.
var _words = []Word{WORD_8, WORD_16, WORD_24, WORD_32}

// Words returns the supported word sizes, smallest first.
func Words() []Word {
	return append([]Word(nil), _words...)
}

// ClosestWord returns the smallest supported word that holds at least bits.
func ClosestWord(bits int) (word Word, err error) {
	if bits < 1 {
		err = ErrWidth(bits)
		return
	}

	for _, word = range _words {
		if word.Bits >= bits {
			return
		}
	}

	word = Word{}
	err = ErrWidth(bits)
	return
}

// Split splits a value into its little-endian bytes.
func (word Word) Split(value uint32) (bytes []byte) {
	bytes = make([]byte, word.Bytes)
	for n := range bytes {
		bytes[n] = byte(value >> (n * 8))
	}
	return
}

// Combine joins little-endian bytes into a value, masked to the word.
func (word Word) Combine(bytes ...byte) (value uint32) {
	for n, b := range bytes {
		if n >= 4 {
			break
		}
		value |= uint32(b) << (n * 8)
	}
	return value & word.Mask
}

func (word Word) String() string {
	return fmt.Sprintf("%d-bit", word.Bits)
}
