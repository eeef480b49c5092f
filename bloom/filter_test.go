package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/postvault/bloom"
	"github.com/stretchr/testify/assert"
)

func TestIndex_AddAndContains(t *testing.T) {
	t.Parallel()

	idx := bloom.NewIndex(1000, bloom.DefaultFalsePositiveRate)

	assert.False(t, idx.Contains("7123"))

	idx.Add("7123")
	idx.Add("https://www.linkedin.com/posts/jane_x")

	assert.True(t, idx.Contains("7123"))
	assert.True(t, idx.MayContain("7123"))
	assert.True(t, idx.Contains("https://www.linkedin.com/posts/jane_x"))
	assert.False(t, idx.Contains("7124"))
}

func TestIndex_IgnoresEmptyKey(t *testing.T) {
	t.Parallel()

	idx := bloom.NewIndex(10, bloom.DefaultFalsePositiveRate)

	idx.Add("")

	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Contains(""))
}

func TestIndex_ZeroCapacity(t *testing.T) {
	t.Parallel()

	idx := bloom.NewIndex(0, bloom.DefaultFalsePositiveRate)

	idx.Add("a")

	assert.True(t, idx.Contains("a"))
}

func TestIndex_Counts(t *testing.T) {
	t.Parallel()

	idx := bloom.NewIndex(1000, bloom.DefaultFalsePositiveRate)
	assert.Equal(t, uint(0), idx.EstimatedCount())

	for i := 0; i < 100; i++ {
		idx.Add(fmt.Sprintf("post-%d", i))
	}
	idx.Add("post-1")

	assert.Equal(t, 100, idx.Len())
	assert.InDelta(t, 100, idx.EstimatedCount(), 10)
}
