package internal

import (
	"fmt"
	"math"
	"strconv"
)

var engPrefix = []struct {
	exp    int
	prefix string
}{
	{-9, "n"},
	{-6, "μ"},
	{-3, "m"},
	{0, ""},
	{3, "k"},
	{6, "M"},
	{9, "G"},
}

// EngNotation formats a value with an SI prefix, ie 1500 Hz -> "1.5kHz".
func EngNotation(value float64, unit string) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'g', -1, 64) + unit
	}

	exp := 0
	scaled := value
	for math.Abs(scaled) >= 1000 && exp < engPrefix[len(engPrefix)-1].exp {
		scaled /= 1000
		exp += 3
	}
	for math.Abs(scaled) < 1 && exp > engPrefix[0].exp {
		scaled *= 1000
		exp -= 3
	}

	prefix := ""
	for _, ep := range engPrefix {
		if ep.exp == exp {
			prefix = ep.prefix
			break
		}
	}

	// Round to 3 decimal places to hide float noise.
	scaled = math.Round(scaled*1000) / 1000

	return fmt.Sprintf("%s%s%s", strconv.FormatFloat(scaled, 'f', -1, 64), prefix, unit)
}
