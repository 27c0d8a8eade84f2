// Package document loads and parses knowledge base source material (plain
// text, PDF, HTML) from local files or S3 objects into indexable text.
package document

import (
	"bytes"
	"context"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// Source is a readable origin of one document plus its metadata.
type Source interface {
	io.ReadCloser
	Meta() map[string]string
}

// Document is parsed text with source metadata carried into the vector store.
type Document struct {
	Text string
	Meta map[string]string
}

// Parse reads a source to the end, sniffs its content type and runs the
// matching parser. Unknown types fall back to the plain text parser.
func Parse(ctx context.Context, src Source) (*Document, error) {
	bs, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	var p Parser
	switch mt := mimetype.Detect(bs); {
	case mt.Is("application/pdf"):
		p = NewPDFParser()
	case mt.Is("text/html"):
		p = NewHTML2MDParser()
	default:
		p = NewTextParser()
	}
	buf := new(bytes.Buffer)
	if err := p.Parse(ctx, bytes.NewReader(bs), buf); err != nil {
		return nil, err
	}
	return &Document{
		Text: buf.String(),
		Meta: src.Meta(),
	}, nil
}
