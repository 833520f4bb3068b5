package extract

import (
	"bytes"
	"fmt"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Strategy names accepted by New.
const (
	StrategyParagraphs  = "paragraphs"
	StrategyReadability = "readability"
)

// Extractor converts raw HTML bytes into a simplified Document.
// Implementations are deterministic and side-effect free.
type Extractor interface {
	Extract(input []byte, pageURL string) (Document, error)
}

// ParagraphExtractor joins the text of every <p> element, skipping empty ones.
type ParagraphExtractor struct{}

func (ParagraphExtractor) Extract(input []byte, _ string) (Document, error) {
	doc, err := ParseHTML(input)
	if err != nil {
		return Document{}, err
	}
	return FromDocument(doc), nil
}

// FromDocument applies the paragraph rules to an already parsed document.
func FromDocument(doc HTMLDocument) Document {
	return Document{Title: doc.Title(), Text: JoinParagraphs(doc.Paragraphs())}
}

// ReadabilityExtractor runs the Mozilla readability port and returns its
// plain-text content. Useful on pages that split prose across <div>s.
type ReadabilityExtractor struct{}

func (ReadabilityExtractor) Extract(input []byte, pageURL string) (Document, error) {
	var base *nurl.URL
	if pageURL != "" {
		if u, err := nurl.Parse(pageURL); err == nil {
			base = u
		}
	}
	article, err := readability.FromReader(bytes.NewReader(input), base)
	if err != nil {
		return Document{}, fmt.Errorf("readability: %w", err)
	}
	return Document{
		Title: strings.TrimSpace(article.Title),
		Text:  collapseSpaces(article.TextContent),
	}, nil
}

// New returns the extractor registered under name. Empty selects paragraphs.
func New(name string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyParagraphs:
		return ParagraphExtractor{}, nil
	case StrategyReadability:
		return ReadabilityExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extract strategy: %q", name)
	}
}
