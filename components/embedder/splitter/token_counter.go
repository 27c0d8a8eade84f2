package splitter

import (
	"fmt"

	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter defines the interface for counting tokens in a byte slice.
// This abstraction allows for different tokenization strategies.
type TokenCounter interface {
	Count(p []byte) int
}

type WordsTokenCounter struct{}

func (c WordsTokenCounter) Count(p []byte) int {
	return len(words.SegmentAll(p))
}

type SentencesTokenCounter struct{}

func (c SentencesTokenCounter) Count(p []byte) int {
	return len(sentences.SegmentAll(p))
}

// TikTokenCounter provides model-accurate token counting using the tiktoken
// encodings used by OpenAI-compatible models.
type TikTokenCounter struct {
	tke *tiktoken.Tiktoken
}

// NewTikTokenCounter creates a TikTokenCounter for the given encoding,
// e.g. "cl100k_base".
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TikTokenCounter{tke: tke}, nil
}

func (ttc *TikTokenCounter) Count(p []byte) int {
	return len(ttc.tke.Encode(string(p), nil, nil))
}
