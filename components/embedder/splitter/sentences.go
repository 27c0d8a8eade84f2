package splitter

import (
	"strings"

	"github.com/clipperhouse/uax29/sentences"

	"github.com/medassist/medichat/components/embedder"
)

const (
	defaultChunkSize = 320
	defaultOverlap   = 40
)

// Sentences chunks text on sentence boundaries, packing whole sentences into
// chunks up to the configured token budget with a token overlap between
// consecutive chunks.
type Sentences struct {
	Options
}

var _ embedder.Chunker = (*Sentences)(nil)

func NewSentences(opts ...Option) *Sentences {
	ret := new(Sentences)
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.chunkSize <= 0 {
		ret.chunkSize = defaultChunkSize
	}
	if ret.overlap < 0 || ret.overlap >= ret.chunkSize {
		ret.overlap = defaultOverlap
	}
	if ret.tokenCounter == nil {
		ret.tokenCounter = WordsTokenCounter{}
	}
	return ret
}

func (s *Sentences) SplitText(text string) []string {
	segs := sentences.SegmentAll([]byte(text))
	parts := make([]string, 0, len(segs))
	counts := make([]int, 0, len(segs))
	for _, seg := range segs {
		part := strings.TrimSpace(string(seg))
		if part == "" {
			continue
		}
		parts = append(parts, part)
		counts = append(counts, s.tokenCounter.Count([]byte(part)))
	}
	if len(parts) == 0 {
		return nil
	}

	var (
		chunks  []string
		current []string
		tokens  int
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, " "))
	}
	for idx, part := range parts {
		if tokens+counts[idx] > s.chunkSize && tokens > 0 {
			flush()
			// carry trailing sentences into the next chunk as overlap
			var (
				kept      []string
				keptCount int
			)
			for i := len(current) - 1; i >= 0; i-- {
				c := s.tokenCounter.Count([]byte(current[i]))
				if keptCount+c > s.overlap {
					break
				}
				kept = append([]string{current[i]}, kept...)
				keptCount += c
			}
			current = kept
			tokens = keptCount
		}
		current = append(current, part)
		tokens += counts[idx]
	}
	flush()
	return chunks
}

func (s *Sentences) TokenCount(txt string) int {
	return s.tokenCounter.Count([]byte(txt))
}
