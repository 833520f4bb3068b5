package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/newslens/internal/analyze"
	"github.com/hyperifyio/newslens/internal/article"
	"github.com/hyperifyio/newslens/internal/fetch"
)

type fakeSource struct {
	text  article.Text
	calls int32
}

func (f *fakeSource) Extract(ctx context.Context, url string) article.Text {
	atomic.AddInt32(&f.calls, 1)
	t := f.text
	t.URL = url
	return t
}

type recordingAnalyzer struct {
	mu       sync.Mutex
	articles []string
	order    []string
	reply    func(instruction string) (string, error)
	inflight int32
	peak     int32
}

func (r *recordingAnalyzer) Analyze(ctx context.Context, instruction, body string) (string, error) {
	n := atomic.AddInt32(&r.inflight, 1)
	for {
		p := atomic.LoadInt32(&r.peak)
		if n <= p || atomic.CompareAndSwapInt32(&r.peak, p, n) {
			break
		}
	}
	defer atomic.AddInt32(&r.inflight, -1)

	r.mu.Lock()
	r.articles = append(r.articles, body)
	r.order = append(r.order, instruction)
	r.mu.Unlock()
	if r.reply != nil {
		return r.reply(instruction)
	}
	return "ok", nil
}

func (r *recordingAnalyzer) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.articles)
}

func TestRun_ExtractionFailureShortCircuits(t *testing.T) {
	src := &fakeSource{text: article.Failure("", errors.New("dial tcp: connection refused"))}
	an := &recordingAnalyzer{}
	p := &Pipeline{Extractor: src, Analyzer: an}

	rep, err := p.Run(context.Background(), "http://unreachable.invalid")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.True(t, rep.Article.Failed())
	assert.True(t, strings.HasPrefix(rep.Article.String(), article.FailurePrefix))
	assert.Empty(t, rep.Results)
	assert.Equal(t, 0, an.calls())
	assert.EqualValues(t, 1, src.calls)
}

func TestRun_CompletenessWithIdenticalArticle(t *testing.T) {
	src := &fakeSource{text: article.Text{Body: "A. B."}}
	an := &recordingAnalyzer{}
	p := &Pipeline{Extractor: src, Analyzer: an, Concurrency: 4}

	rep, err := p.Run(context.Background(), "https://example.com/story")
	require.NoError(t, err)
	require.Len(t, rep.Results, 9)
	assert.Equal(t, 9, an.calls())
	for _, a := range an.articles {
		assert.Equal(t, "A. B.", a)
	}
	for i, task := range analyze.DefaultTasks() {
		assert.Equal(t, task.Key, rep.Results[i].Task.Key, "result %d out of catalog order", i)
		assert.Equal(t, "ok", rep.Results[i].Text)
	}
}

func TestRun_StoryScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><p>A.</p><p></p><p>B.</p></body></html>`))
	}))
	defer srv.Close()

	an := &recordingAnalyzer{reply: func(string) (string, error) { return "• neutral tone", nil }}
	p := &Pipeline{
		Extractor:   &article.Extractor{Fetcher: &fetch.Client{}},
		Analyzer:    an,
		Concurrency: 1,
	}

	rep, err := p.Run(context.Background(), srv.URL+"/story")
	require.NoError(t, err)
	assert.Equal(t, "A. B.", rep.Article.Body)
	require.Len(t, rep.Results, 9)
	for _, res := range rep.Results {
		assert.Equal(t, "• neutral tone", res.Text)
	}
	assert.Len(t, rep.QuickAssessment(), 3)
	assert.Len(t, rep.FullAnalysis(), 6)
}

func TestRun_BlankURL(t *testing.T) {
	src := &fakeSource{}
	an := &recordingAnalyzer{}
	p := &Pipeline{Extractor: src, Analyzer: an}

	for _, u := range []string{"", "   ", "\t\n"} {
		_, err := p.Run(context.Background(), u)
		assert.ErrorIs(t, err, ErrBlankURL)
	}
	assert.EqualValues(t, 0, src.calls)
	assert.Equal(t, 0, an.calls())
}

func TestRun_EmptyArticlePromotedToFailure(t *testing.T) {
	an := &recordingAnalyzer{}
	p := &Pipeline{Extractor: &fakeSource{text: article.Text{Body: ""}}, Analyzer: an}

	rep, err := p.Run(context.Background(), "https://example.com/empty")
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Equal(t, "Error extracting article: no paragraph text found", rep.Article.String())
	assert.Equal(t, 0, an.calls())

	p.AllowEmptyArticle = true
	rep, err = p.Run(context.Background(), "https://example.com/empty")
	require.NoError(t, err)
	assert.Len(t, rep.Results, 9)
	assert.Equal(t, 9, an.calls())
}

func TestRun_IsolatesTaskFailures(t *testing.T) {
	boom := errors.New("rate limited")
	an := &recordingAnalyzer{reply: func(instr string) (string, error) {
		if strings.HasPrefix(instr, "Analyze the tone") {
			return "", boom
		}
		return "fine", nil
	}}
	p := &Pipeline{Extractor: &fakeSource{text: article.Text{Body: "x"}}, Analyzer: an}

	rep, err := p.Run(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	require.Len(t, rep.Results, 9)
	assert.Equal(t, 1, rep.Failures())
	for _, res := range rep.Results {
		if res.Task.Key == "tone" {
			assert.ErrorIs(t, res.Err, boom)
			assert.Empty(t, res.Text)
		} else {
			assert.NoError(t, res.Err)
			assert.Equal(t, "fine", res.Text)
		}
	}
}

func TestRun_FailFast(t *testing.T) {
	boom := errors.New("401 unauthorized")
	an := &recordingAnalyzer{reply: func(string) (string, error) { return "", boom }}
	p := &Pipeline{
		Extractor:   &fakeSource{text: article.Text{Body: "x"}},
		Analyzer:    an,
		Concurrency: 1,
		FailFast:    true,
	}

	rep, err := p.Run(context.Background(), "https://example.com/a")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, rep.Results, 9)
	// Sequential execution stops issuing calls after the first failure.
	assert.Equal(t, 1, an.calls())
	for _, res := range rep.Results {
		assert.Error(t, res.Err)
	}
}

func TestRun_SequentialPreservesCatalogOrder(t *testing.T) {
	an := &recordingAnalyzer{}
	p := &Pipeline{Extractor: &fakeSource{text: article.Text{Body: "x"}}, Analyzer: an, Concurrency: 1}

	_, err := p.Run(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	tasks := analyze.DefaultTasks()
	require.Len(t, an.order, len(tasks))
	for i, task := range tasks {
		assert.Equal(t, task.Instruction, an.order[i])
	}
	assert.EqualValues(t, 1, an.peak)
}

func TestRun_ConcurrencyLimit(t *testing.T) {
	an := &recordingAnalyzer{reply: func(string) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return "ok", nil
	}}
	p := &Pipeline{Extractor: &fakeSource{text: article.Text{Body: "x"}}, Analyzer: an, Concurrency: 3}

	_, err := p.Run(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&an.peak), int32(3))
}

func TestReport_Columns(t *testing.T) {
	var results []Result
	for _, task := range analyze.DefaultTasks() {
		results = append(results, Result{Task: task, Text: task.Key})
	}
	rep := Report{Results: results}

	col := func(g analyze.Group, c int) []string {
		var keys []string
		for _, r := range rep.Column(g, c) {
			keys = append(keys, r.Text)
		}
		return keys
	}
	assert.Equal(t, []string{"bias"}, col(analyze.GroupQuick, 0))
	assert.Equal(t, []string{"summary", "narrative"}, col(analyze.GroupFull, 0))
	assert.Equal(t, []string{"tone", "missing_facts"}, col(analyze.GroupFull, 1))
	assert.Equal(t, []string{"alternative_viewpoints", "misinterpretation_risk"}, col(analyze.GroupFull, 2))
}
