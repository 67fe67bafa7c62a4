package instruction

import (
	"fmt"
	"iter"
	"strings"
	"sync"
)

const (
	DEFAULT_HISTORY_CAPACITY = 32 // Entries kept by a default history.
)

// Entry is one executed instruction.
type Entry struct {
	Address int
	Keyword string
}

// History keeps the most recent executed instructions, oldest first.
//
// It is safe for the host to read while the processor writes to it.
type History struct {
	mutex sync.Mutex
	entry []Entry // ring buffer
	first int
	count int
}

// NewHistory creates a history holding up to capacity entries.
// A capacity below 1 selects DEFAULT_HISTORY_CAPACITY.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DEFAULT_HISTORY_CAPACITY
	}

	return &History{
		entry: make([]Entry, capacity),
	}
}

// Capacity returns the maximum number of entries kept.
func (hist *History) Capacity() int {
	return len(hist.entry)
}

// Len returns the number of entries kept.
func (hist *History) Len() int {
	hist.mutex.Lock()
	defer hist.mutex.Unlock()

	return hist.count
}

// Put records an executed instruction, evicting the oldest when full.
func (hist *History) Put(address int, keyword string) {
	hist.mutex.Lock()
	defer hist.mutex.Unlock()

	size := len(hist.entry)
	if hist.count < size {
		hist.entry[(hist.first+hist.count)%size] = Entry{Address: address, Keyword: keyword}
		hist.count++
		return
	}

	hist.entry[hist.first] = Entry{Address: address, Keyword: keyword}
	hist.first = (hist.first + 1) % size
}

// Clear forgets all entries.
func (hist *History) Clear() {
	hist.mutex.Lock()
	defer hist.mutex.Unlock()

	clear(hist.entry)
	hist.first = 0
	hist.count = 0
}

// Entries returns a snapshot of the entries, oldest first.
func (hist *History) Entries() (entries []Entry) {
	hist.mutex.Lock()
	defer hist.mutex.Unlock()

	entries = make([]Entry, hist.count)
	for n := range entries {
		entries[n] = hist.entry[(hist.first+n)%len(hist.entry)]
	}
	return
}

// All iterates address and keyword, oldest first.
// Each call iterates a fresh snapshot.
func (hist *History) All() iter.Seq2[int, string] {
	return func(yield func(address int, keyword string) bool) {
		for _, entry := range hist.Entries() {
			if !yield(entry.Address, entry.Keyword) {
				return
			}
		}
	}
}

func (hist *History) String() string {
	var text strings.Builder
	for address, keyword := range hist.All() {
		fmt.Fprintf(&text, "%04x: %v\n", address, keyword)
	}
	return text.String()
}
