package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosestWord(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		bits   int
		expect Word
	}{
		{1, WORD_8},
		{8, WORD_8},
		{9, WORD_16},
		{16, WORD_16},
		{17, WORD_24},
		{24, WORD_24},
		{25, WORD_32},
		{32, WORD_32},
	}

	for _, entry := range table {
		word, err := ClosestWord(entry.bits)
		assert.NoError(err, entry.bits)
		assert.Equal(entry.expect, word, entry.bits)
		assert.GreaterOrEqual(word.Bits, entry.bits)
	}
}

func TestClosestWordUnsupported(t *testing.T) {
	assert := assert.New(t)

	for _, bits := range []int{0, -1, 33, 64} {
		_, err := ClosestWord(bits)
		assert.ErrorIs(err, ErrUnsupportedWidth, bits)

		var width ErrWidth
		assert.True(errors.As(err, &width))
		assert.Equal(bits, int(width))
	}
}

func TestWords(t *testing.T) {
	assert := assert.New(t)

	words := Words()
	assert.Equal([]Word{WORD_8, WORD_16, WORD_24, WORD_32}, words)

	words[0] = WORD_32
	assert.Equal(WORD_8, Words()[0])
}

func TestWordSplitCombine(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]byte{0x56, 0x34, 0x12}, WORD_24.Split(0x123456))
	assert.Equal(uint32(0x123456), WORD_24.Combine(0x56, 0x34, 0x12))
	assert.Equal(uint32(0x34), WORD_8.Combine(0x34, 0x12))
	assert.Equal([]byte{0xff}, WORD_8.Split(0x1ff))
	assert.Equal("16-bit", WORD_16.String())
}
