package article

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/newslens/internal/extract"
	"github.com/hyperifyio/newslens/internal/fetch"
)

// FailurePrefix marks a failed extraction. Callers may detect failure with a
// plain prefix check on Text.String().
const FailurePrefix = "Error extracting article: "

// Text is either extracted prose or a tagged failure.
type Text struct {
	URL    string
	Title  string
	Status int
	Body   string
	err    error
}

// Failure builds a failed Text for url that wraps cause.
func Failure(url string, cause error) Text {
	if cause == nil {
		cause = errors.New("unknown error")
	}
	return Text{URL: url, err: cause}
}

// Failed reports whether extraction failed.
func (t Text) Failed() bool { return t.err != nil }

// Err returns the underlying cause of a failure, or nil.
func (t Text) Err() error { return t.err }

// Message is the human-readable failure message, or "" on success.
func (t Text) Message() string {
	if t.err == nil {
		return ""
	}
	return FailurePrefix + t.err.Error()
}

// String returns the failure message for failed values and the body otherwise.
func (t Text) String() string {
	if t.err != nil {
		return t.Message()
	}
	return t.Body
}

// Getter is the fetch capability the extractor depends on.
type Getter interface {
	Get(ctx context.Context, url string) (fetch.Response, error)
}

// Extractor fetches a page and extracts its article text.
type Extractor struct {
	Fetcher  Getter
	Strategy extract.Extractor
}

// Extract performs one GET and returns the extracted text. It never returns
// an error: every failure is folded into a tagged Text. A page with no
// paragraph text yields an empty, successful Text.
func (e *Extractor) Extract(ctx context.Context, url string) Text {
	start := time.Now()
	if e == nil || e.Fetcher == nil {
		return Failure(url, errors.New("extractor not configured"))
	}
	strategy := e.Strategy
	if strategy == nil {
		strategy = extract.ParagraphExtractor{}
	}

	resp, err := e.Fetcher.Get(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("article fetch failed")
		return Failure(url, err)
	}
	doc, err := strategy.Extract(resp.Body, resp.URL)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("article parse failed")
		return Failure(url, err)
	}
	out := Text{URL: url, Title: doc.Title, Status: resp.Status, Body: strings.TrimSpace(doc.Text)}
	log.Info().Str("url", url).Int("status", resp.Status).Int("chars", len(out.Body)).Dur("duration", time.Since(start)).Msg("article extracted")
	return out
}
