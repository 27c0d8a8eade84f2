package document

import (
	"bytes"
	"context"
	"io"
)

// TextParser copies content through unchanged.
type TextParser struct{}

var _ Parser = (*TextParser)(nil)

func NewTextParser() *TextParser {
	return new(TextParser)
}

func (p *TextParser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	_, err := io.Copy(writer, reader)
	return err
}
