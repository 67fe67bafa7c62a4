package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngNotation(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		value  float64
		unit   string
		expect string
	}{
		{0, "Hz", "0Hz"},
		{1, "Hz", "1Hz"},
		{999, "Hz", "999Hz"},
		{1000, "Hz", "1kHz"},
		{1500, "Hz", "1.5kHz"},
		{2_000_000, "Hz", "2MHz"},
		{1_000_000_000, "Hz", "1GHz"},
		{0.001, "s", "1ms"},
		{0.0000025, "s", "2.5μs"},
	}

	for _, entry := range table {
		assert.Equal(entry.expect, EngNotation(entry.value, entry.unit), entry.expect)
	}
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]string{"IP": "0"}
	b := map[string]string{"SP": "1", "ZF": "2"}

	all := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]string{"IP": "0", "SP": "1", "ZF": "2"}, all)

	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeqConcat(t *testing.T) {
	assert := assert.New(t)

	got := slices.Collect(IterSeqConcat(slices.Values([]int{1, 2}), slices.Values([]int{3})))
	assert.Equal([]int{1, 2, 3}, got)
}
