package chunker_test

import (
	"strings"
	"testing"

	"docqa/chunker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsOverlapNotLessThanSize(t *testing.T) {
	_, err := chunker.New(100, 100)
	assert.Error(t, err)

	_, err = chunker.New(100, 150)
	assert.Error(t, err)

	_, err = chunker.New(100, 99)
	assert.NoError(t, err)
}

func TestSplitBoundaries(t *testing.T) {
	c, err := chunker.New(500, 100)
	require.NoError(t, err)

	text := strings.Repeat("a", 400) + strings.Repeat("b", 400) + strings.Repeat("c", 200)
	chunks := c.Split(text)

	require.Len(t, chunks, 3)
	assert.Equal(t, text[0:500], chunks[0])
	assert.Equal(t, text[400:900], chunks[1])
	assert.Equal(t, text[800:1000], chunks[2])
}

func TestSplitEmptyInput(t *testing.T) {
	c, err := chunker.New(500, 100)
	require.NoError(t, err)

	assert.Empty(t, c.Split(""))
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	c, err := chunker.New(500, 100)
	require.NoError(t, err)

	chunks := c.Split("hello world")
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitCountFormula(t *testing.T) {
	size, overlap := 50, 10
	c, err := chunker.New(size, overlap)
	require.NoError(t, err)

	for _, length := range []int{1, 49, 50, 51, 90, 91, 200, 1000} {
		text := strings.Repeat("x", length)
		chunks := c.Split(text)

		want := (max(length-overlap, 0) + (size - overlap) - 1) / (size - overlap)
		if want == 0 {
			want = 1 // any non-empty text yields at least one chunk
		}
		assert.Len(t, chunks, want, "length %d", length)
	}
}

func TestSplitReconstructsOriginal(t *testing.T) {
	size, overlap := 40, 15
	c, err := chunker.New(size, overlap)
	require.NoError(t, err)

	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	var sb strings.Builder
	sb.WriteString(chunks[0])
	for _, ch := range chunks[1:] {
		runes := []rune(ch)
		sb.WriteString(string(runes[overlap:]))
	}
	assert.Equal(t, text, sb.String())
}

func TestSplitMultibyteRunes(t *testing.T) {
	c, err := chunker.New(4, 1)
	require.NoError(t, err)

	text := "привет мир"
	chunks := c.Split(text)
	for _, ch := range chunks {
		assert.True(t, strings.ToValidUTF8(ch, "") == ch, "chunk must stay valid UTF-8")
	}
}
