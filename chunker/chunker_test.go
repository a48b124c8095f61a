package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int, format string) string {
	out := make([]string, n)
	for i := range out {
		if strings.Contains(format, "%d") {
			out[i] = fmt.Sprintf(format, i)
		} else {
			out[i] = format
		}
	}
	return strings.Join(out, " ")
}

func TestChunkEmptyText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"spaces", "   "},
		{"mixed whitespace", "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Split(tt.text, 100, 20))
		})
	}
}

func TestChunkSmallerThanWindow(t *testing.T) {
	chunks := Split(words(50, "word"), 100, 20)

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 0, chunks[0].StartWord)
	assert.Equal(t, 50, chunks[0].EndWord)
	assert.Len(t, strings.Fields(chunks[0].Text), 50)
}

func TestChunkExactlyOneWindow(t *testing.T) {
	chunks := Split(words(100, "word"), 100, 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, 100, chunks[0].EndWord)
}

func TestChunkSingleWord(t *testing.T) {
	chunks := Split("hello", 100, 20)

	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartWord)
	assert.Equal(t, 1, chunks[0].EndWord)
}

func TestChunkWithOverlap(t *testing.T) {
	// step of 80 over 250 words
	chunks := Split(words(250, "word%d"), 100, 20)

	starts := make([]int, len(chunks))
	for i, c := range chunks {
		starts[i] = c.StartWord
	}
	assert.Equal(t, []int{0, 80, 160, 240}, starts)

	assert.Equal(t, 100, chunks[0].EndWord)
	assert.Equal(t, 80, chunks[1].StartWord)
	assert.Equal(t, 180, chunks[1].EndWord)
	assert.Equal(t, 250, chunks[2].EndWord)
	assert.Equal(t, 250, chunks[3].EndWord)
}

func TestChunkZeroOverlapIsContiguous(t *testing.T) {
	chunks := Split(words(150, "x"), 50, 0)

	require.Len(t, chunks, 3)
	assert.Equal(t, [2]int{0, 50}, [2]int{chunks[0].StartWord, chunks[0].EndWord})
	assert.Equal(t, [2]int{50, 100}, [2]int{chunks[1].StartWord, chunks[1].EndWord})
	assert.Equal(t, [2]int{100, 150}, [2]int{chunks[2].StartWord, chunks[2].EndWord})
}

func TestChunkIndicesAreSequential(t *testing.T) {
	chunks := Split(words(500, "word"), 100, 20)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}

func TestChunkTextMatchesWordRange(t *testing.T) {
	text := strings.Repeat("one two three four five ", 25)
	all := strings.Fields(text)

	for _, c := range Split(text, 100, 20) {
		assert.Equal(t, all[c.StartWord:c.EndWord], strings.Fields(c.Text))
		assert.Equal(t, c.EndWord-c.StartWord, len(strings.Fields(c.Text)))
	}
}

func TestChunkCoversEveryWord(t *testing.T) {
	configs := []struct{ window, overlap, total int }{
		{100, 20, 250},
		{50, 0, 150},
		{7, 3, 61},
		{400, 50, 1234},
		{2, 1, 9},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("w%d_o%d_n%d", cfg.window, cfg.overlap, cfg.total), func(t *testing.T) {
			chunks := Split(words(cfg.total, "w%d"), cfg.window, cfg.overlap)

			covered := make([]bool, cfg.total)
			prevEnd := 0
			for i, c := range chunks {
				for w := c.StartWord; w < c.EndWord; w++ {
					covered[w] = true
				}
				if i > 0 {
					assert.GreaterOrEqual(t, c.EndWord, prevEnd)
					assert.Greater(t, c.StartWord, chunks[i-1].StartWord)
				}
				prevEnd = c.EndWord
			}
			for w, ok := range covered {
				assert.True(t, ok, "word %d not covered", w)
			}
		})
	}
}

func TestChunkIsDeterministic(t *testing.T) {
	text := words(900, "token%d")
	assert.Equal(t, Split(text, 400, 50), Split(text, 400, 50))
}

func TestChunkCollapsesWhitespace(t *testing.T) {
	chunks := Split("  alpha\t\tbeta\n\ngamma   ", 10, 2)

	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0].Text)
	assert.Equal(t, 3, chunks[0].EndWord)
}

func TestChunkPanicsOnBadWindow(t *testing.T) {
	assert.Panics(t, func() { Split("a b c", 10, 10) })
	assert.Panics(t, func() { Split("a b c", 10, -1) })
}

func TestNew(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)
	assert.Equal(t, 100, c.Window())
	assert.Equal(t, 20, c.Overlap())

	_, err = New(50, 50)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = New(50, -5)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestProvideChunkerDefaults(t *testing.T) {
	c := ProvideChunker()
	assert.Equal(t, DefaultWindow, c.Window())
	assert.Equal(t, DefaultOverlap, c.Overlap())

	// 351 words: the default step of 350 yields a second, single-word chunk
	chunks := c.Chunk(words(351, "w%d"))
	require.Len(t, chunks, 2)
	assert.Equal(t, 350, chunks[1].StartWord)
	assert.Equal(t, 351, chunks[1].EndWord)
}
