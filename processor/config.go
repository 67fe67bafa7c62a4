package processor

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/pemu/clock"
	"github.com/ezrec/pemu/instruction"
	"github.com/ezrec/pemu/memory"
)

const (
	DEFAULT_BITS        = 16
	DEFAULT_MEMORY_SIZE = 256
	DEFAULT_FREQUENCY   = 1000

	MIN_MEMORY_SIZE = 8
	MAX_MEMORY_SIZE = 1 << 24
)

// Config is the construction-time configuration of a processor.
type Config struct {
	Bits            int `toml:"bits"`        // Requested word width, rounded up.
	MemorySize      int `toml:"memory_size"` // Memory size in words.
	Frequency       int `toml:"frequency"`   // Clock frequency in Hz.
	HistoryCapacity int `toml:"history"`     // Instruction history entries.
}

// DefaultConfig returns a 16-bit, 256 word, 1kHz configuration.
func DefaultConfig() Config {
	return Config{
		Bits:            DEFAULT_BITS,
		MemorySize:      DEFAULT_MEMORY_SIZE,
		Frequency:       DEFAULT_FREQUENCY,
		HistoryCapacity: instruction.DEFAULT_HISTORY_CAPACITY,
	}
}

// LoadConfig decodes a TOML configuration over the defaults.
// Unknown keys are rejected.
func LoadConfig(file io.Reader) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.NewDecoder(file).Decode(&cfg)
	if err != nil {
		err = &ErrConfigValue{Field: "toml", Value: "", Err: err}
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		var keys []string
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		err = &ErrConfigValue{Field: "key", Value: strings.Join(keys, ",")}
		return
	}

	err = cfg.Validate()
	return
}

// Word returns the memory word selected by Bits.
func (cfg Config) Word() (word memory.Word, err error) {
	word, err = memory.ClosestWord(cfg.Bits)
	if err != nil {
		err = &ErrConfigValue{Field: "bits", Value: cfg.Bits, Err: err}
	}
	return
}

// MaxMemorySize returns the largest memory whose last address fits a word.
func (cfg Config) MaxMemorySize() (size int, err error) {
	word, err := cfg.Word()
	if err != nil {
		return
	}

	size = min(int(uint64(word.Mask)+1), MAX_MEMORY_SIZE)
	return
}

// Validate checks every field.
func (cfg Config) Validate() (err error) {
	limit, err := cfg.MaxMemorySize()
	if err != nil {
		return
	}

	if cfg.MemorySize < MIN_MEMORY_SIZE || cfg.MemorySize > limit {
		err = &ErrConfigValue{Field: "memory_size", Value: cfg.MemorySize}
		return
	}

	if cfg.Frequency < clock.MIN_FREQUENCY || cfg.Frequency > clock.MAX_FREQUENCY {
		err = &ErrConfigValue{Field: "frequency", Value: cfg.Frequency, Err: clock.ErrFrequencyRange(cfg.Frequency)}
		return
	}

	if cfg.HistoryCapacity < 0 {
		err = &ErrConfigValue{Field: "history", Value: cfg.HistoryCapacity}
		return
	}

	return
}
