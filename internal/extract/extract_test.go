package extract

import (
    "strings"
    "testing"
)

func TestParagraphExtractor_JoinsParagraphsInOrder(t *testing.T) {
    html := `<!doctype html>
    <html>
      <head><title>Story</title></head>
      <body>
        <p>A.</p>
        <p></p>
        <p>B.</p>
      </body>
    </html>`

    doc, err := ParagraphExtractor{}.Extract([]byte(html), "https://example.com/story")
    if err != nil {
        t.Fatalf("extract error: %v", err)
    }
    if doc.Text != "A. B." {
        t.Fatalf("expected %q, got %q", "A. B.", doc.Text)
    }
    if doc.Title != "Story" {
        t.Fatalf("expected title 'Story', got %q", doc.Title)
    }
}

func TestParagraphExtractor_IgnoresNonParagraphText(t *testing.T) {
    html := `<html><body>
        <nav>Home | World</nav>
        <h1>Headline</h1>
        <div>Loose div text</div>
        <article><p>First <b>bold</b> sentence.</p>
        <p>
           Second   sentence
           spans lines.
        </p></article>
      </body></html>`

    doc, err := ParagraphExtractor{}.Extract([]byte(html), "")
    if err != nil {
        t.Fatalf("extract error: %v", err)
    }
    want := "First bold sentence. Second sentence spans lines."
    if doc.Text != want {
        t.Fatalf("expected %q, got %q", want, doc.Text)
    }
    for _, unwanted := range []string{"Home", "Headline", "Loose div"} {
        if strings.Contains(doc.Text, unwanted) {
            t.Fatalf("did not expect %q in %q", unwanted, doc.Text)
        }
    }
}

func TestParagraphExtractor_NonHTMLYieldsEmpty(t *testing.T) {
    doc, err := ParagraphExtractor{}.Extract([]byte(`{"json": true}`), "")
    if err != nil {
        t.Fatalf("extract error: %v", err)
    }
    if doc.Text != "" {
        t.Fatalf("expected empty text, got %q", doc.Text)
    }
}

// Whitespace-only paragraphs count as empty and are skipped.
func TestParagraphExtractor_SkipsWhitespaceParagraphs(t *testing.T) {
    doc, err := ParagraphExtractor{}.Extract([]byte("<p>  </p><p>x</p><p>\n\t</p><p>y</p>"), "")
    if err != nil {
        t.Fatalf("extract error: %v", err)
    }
    if doc.Text != "x y" {
        t.Fatalf("got %q", doc.Text)
    }
}

type fixtureDoc struct {
    title string
    paras []string
}

func (f fixtureDoc) Title() string        { return f.title }
func (f fixtureDoc) Paragraphs() []string { return f.paras }

func TestFromDocument_UsesFixtureDocument(t *testing.T) {
    d := FromDocument(fixtureDoc{title: "T", paras: []string{"", "one", "", "two", "three"}})
    if d.Text != "one two three" || d.Title != "T" {
        t.Fatalf("unexpected document: %+v", d)
    }
}

func TestReadabilityExtractor_ReturnsArticleText(t *testing.T) {
    body := strings.Repeat("The council voted on the new transit budget after a long debate. ", 20)
    html := `<html><head><title>Council vote</title></head><body>
      <div id="menu"><a href="/">Home</a></div>
      <article><h1>Council vote</h1><div class="content"><p>` + body + `</p><p>` + body + `</p></div></article>
    </body></html>`

    doc, err := ReadabilityExtractor{}.Extract([]byte(html), "https://example.com/news/vote")
    if err != nil {
        t.Fatalf("extract error: %v", err)
    }
    if !strings.Contains(doc.Text, "transit budget") {
        t.Fatalf("expected article body in text, got %q", doc.Text)
    }
}

func TestNew_Strategies(t *testing.T) {
    for _, name := range []string{"", "paragraphs", "READABILITY"} {
        if _, err := New(name); err != nil {
            t.Fatalf("New(%q) error: %v", name, err)
        }
    }
    if _, err := New("magic"); err == nil {
        t.Fatalf("expected error for unknown strategy")
    }
}
