// Package bloom provides a saved-post index backed by a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate is the filter's target false positive rate.
const DefaultFalsePositiveRate = 0.01

// Index records post IDs and URLs. The filter answers most misses
// without touching the exact key set.
type Index struct {
	f    *bloom.BloomFilter
	keys map[string]struct{}
}

// NewIndex creates an Index sized for n expected keys.
func NewIndex(n uint, fpRate float64) *Index {
	if n == 0 {
		n = 1
	}
	return &Index{
		f:    bloom.NewWithEstimates(n, fpRate),
		keys: make(map[string]struct{}, n),
	}
}

// Add records key. Empty keys are ignored.
func (i *Index) Add(key string) {
	if key == "" {
		return
	}
	i.f.AddString(key)
	i.keys[key] = struct{}{}
}

// MayContain reports whether key might have been added.
// False positives are possible; false negatives are not.
func (i *Index) MayContain(key string) bool {
	return i.f.TestString(key)
}

// Contains reports whether key was added.
func (i *Index) Contains(key string) bool {
	if key == "" || !i.f.TestString(key) {
		return false
	}
	_, ok := i.keys[key]
	return ok
}

// Len returns the number of distinct keys added.
func (i *Index) Len() int {
	return len(i.keys)
}

// EstimatedCount returns the filter's approximation of the key count.
func (i *Index) EstimatedCount() uint {
	return uint(i.f.ApproximatedSize())
}
