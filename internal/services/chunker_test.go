package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextShortInputSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("short resume text", 1000, 100)

	require.Len(t, chunks, 1)
	assert.Equal(t, "short resume text", chunks[0])
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	assert.Empty(t, chunker.ChunkText("", 1000, 100))
	assert.Empty(t, chunker.ChunkText("\n\n\n\n", 1000, 100))
}

func TestChunkTextSplitsOnParagraphs(t *testing.T) {
	chunker := NewTextChunker()

	paraA := strings.Repeat("a", 60)
	paraB := strings.Repeat("b", 60)
	text := paraA + "\n\n" + paraB

	chunks := chunker.ChunkText(text, 100, 0)

	require.Len(t, chunks, 2)
	assert.Equal(t, paraA, chunks[0])
	assert.Equal(t, paraB, chunks[1])
}

func TestChunkTextCarriesOverlap(t *testing.T) {
	chunker := NewTextChunker()

	paraA := strings.Repeat("a", 60)
	paraB := strings.Repeat("b", 60)

	chunks := chunker.ChunkText(paraA+"\n\n"+paraB, 100, 10)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1], strings.Repeat("a", 10)+"\n"),
		"second chunk should start with the tail of the first")
	assert.Contains(t, chunks[1], paraB)
}

func TestChunkTextSplitsOversizedParagraphOnLines(t *testing.T) {
	chunker := NewTextChunker()

	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, strings.Repeat("x", 30))
	}
	text := strings.Join(lines, "\n")

	chunks := chunker.ChunkText(text, 100, 0)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100)
	}
}

func TestChunkTextDefaultsForInvalidParameters(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("some text", 0, -5)

	require.Len(t, chunks, 1)
	assert.Equal(t, "some text", chunks[0])
}
