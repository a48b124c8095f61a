package chunker

import (
	"errors"
	"strings"
)

const (
	DefaultWindow  = 400
	DefaultOverlap = 50
)

var ErrInvalidWindow = errors.New("chunk window must be larger than overlap and overlap must not be negative")

// Chunk is a word-range window over a document.
// EndWord is exclusive, so EndWord-StartWord is the number of words in Text.
type Chunk struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	StartWord int    `json:"startWord"`
	EndWord   int    `json:"endWord"`
}

type Chunker struct {
	window  int
	overlap int
}

// ProvideChunker returns a chunker with the default 400 word window and 50 word overlap.
func ProvideChunker() *Chunker {
	return &Chunker{window: DefaultWindow, overlap: DefaultOverlap}
}

func New(window, overlap int) (*Chunker, error) {
	if overlap < 0 || window <= overlap {
		return nil, ErrInvalidWindow
	}
	return &Chunker{window: window, overlap: overlap}, nil
}

func (c *Chunker) Window() int  { return c.window }
func (c *Chunker) Overlap() int { return c.overlap }

func (c *Chunker) Chunk(text string) []Chunk {
	return Split(text, c.window, c.overlap)
}

// Split splits text into overlapping windows of whitespace-delimited words.
// Empty or whitespace-only text yields no chunks. The last chunk may be
// shorter than window. Panics when window-overlap < 1; use New to validate
// configuration up front.
func Split(text string, window, overlap int) []Chunk {
	if overlap < 0 || window <= overlap {
		panic(ErrInvalidWindow)
	}

	words := strings.Fields(text)
	step := window - overlap

	var out []Chunk
	for i := 0; i < len(words); i += step {
		end := min(i+window, len(words))
		out = append(out, Chunk{
			Index:     len(out),
			Text:      strings.Join(words[i:end], " "),
			StartWord: i,
			EndWord:   end,
		})
	}

	return out
}
