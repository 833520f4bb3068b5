package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HTMLDocument is the read-only view of a parsed page that extraction
// strategies work against. Fixtures can implement it directly in tests.
type HTMLDocument interface {
	// Title returns the trimmed <title> text, or "" when absent.
	Title() string
	// Paragraphs returns the visible text of every paragraph element in
	// document order, whitespace-collapsed. Empty paragraphs are included
	// as "" so callers decide how to treat them.
	Paragraphs() []string
}

// Document is a simplified representation of extracted page content.
type Document struct {
	Title string
	Text  string
}

type goqueryDocument struct {
	doc *goquery.Document
}

// ParseHTML parses raw bytes into an HTMLDocument.
func ParseHTML(input []byte) (HTMLDocument, error) {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &goqueryDocument{doc: goquery.NewDocumentFromNode(node)}, nil
}

func (d *goqueryDocument) Title() string {
	return collapseSpaces(d.doc.Find("head title").First().Text())
}

func (d *goqueryDocument) Paragraphs() []string {
	sel := d.doc.Find("p")
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, collapseSpaces(s.Text()))
	})
	return out
}

// JoinParagraphs joins non-empty paragraphs with single spaces.
func JoinParagraphs(paragraphs []string) string {
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p == "" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, " ")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
