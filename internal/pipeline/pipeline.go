package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/newslens/internal/analyze"
	"github.com/hyperifyio/newslens/internal/article"
)

var (
	// ErrBlankURL is returned when the submitted URL is empty after trimming.
	ErrBlankURL = errors.New("please enter a valid URL")
	// ErrExtraction wraps the failure message of an unsuccessful extraction.
	ErrExtraction = errors.New("article extraction failed")
	// errEmptyArticle is the cause recorded when no paragraph text was found.
	errEmptyArticle = errors.New("no paragraph text found")
)

// ArticleSource turns a URL into article text or a tagged failure.
type ArticleSource interface {
	Extract(ctx context.Context, url string) article.Text
}

// TaskAnalyzer answers one instruction about an article.
type TaskAnalyzer interface {
	Analyze(ctx context.Context, instruction, article string) (string, error)
}

// Result is the answer to one task. Err is set instead of Text when the
// completion call for that task failed.
type Result struct {
	Task analyze.Task
	Text string
	Err  error
}

// Failed reports whether the task produced an error.
func (r Result) Failed() bool { return r.Err != nil }

// Report is a finished run.
type Report struct {
	URL       string
	Article   article.Text
	Results   []Result
	StartedAt time.Time
	Duration  time.Duration
}

// QuickAssessment returns the results in the quick group in catalog order.
func (r Report) QuickAssessment() []Result { return r.group(analyze.GroupQuick) }

// FullAnalysis returns the results in the full group in catalog order.
func (r Report) FullAnalysis() []Result { return r.group(analyze.GroupFull) }

// Column returns the results of group g placed in column col.
func (r Report) Column(g analyze.Group, col int) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Task.Group == g && res.Task.Column == col {
			out = append(out, res)
		}
	}
	return out
}

func (r Report) group(g analyze.Group) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Task.Group == g {
			out = append(out, res)
		}
	}
	return out
}

// Failures counts results that carry an error.
func (r Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Pipeline extracts an article once and runs every task against it.
type Pipeline struct {
	Extractor ArticleSource
	Analyzer  TaskAnalyzer
	Tasks     []analyze.Task
	// Concurrency bounds simultaneous completion calls. Values <= 0 run all
	// tasks at once; 1 runs them sequentially in catalog order.
	Concurrency int
	// FailFast cancels the remaining tasks on the first failure and returns
	// that error from Run.
	FailFast bool
	// AllowEmptyArticle analyzes pages with no paragraph text instead of
	// treating them as an extraction failure.
	AllowEmptyArticle bool
}

// Run validates url, extracts the article and dispatches one analysis per
// task. The returned Report always carries the article. On extraction
// failure no task is run and the error wraps ErrExtraction.
func (p *Pipeline) Run(ctx context.Context, url string) (Report, error) {
	url = strings.TrimSpace(url)
	rep := Report{URL: url, StartedAt: time.Now()}
	if url == "" {
		return rep, ErrBlankURL
	}
	if p == nil || p.Extractor == nil || p.Analyzer == nil {
		return rep, errors.New("pipeline not configured")
	}

	text := p.Extractor.Extract(ctx, url)
	if !text.Failed() && text.Body == "" && !p.AllowEmptyArticle {
		text = article.Failure(url, errEmptyArticle)
	}
	rep.Article = text
	if text.Failed() {
		rep.Duration = time.Since(rep.StartedAt)
		log.Warn().Str("url", url).Str("error", text.Message()).Msg("analysis skipped")
		return rep, fmt.Errorf("%w: %s", ErrExtraction, text.Message())
	}

	tasks := p.Tasks
	if tasks == nil {
		tasks = analyze.DefaultTasks()
	}
	results, err := p.runTasks(ctx, tasks, text.Body)
	rep.Results = results
	rep.Duration = time.Since(rep.StartedAt)
	if err != nil {
		return rep, err
	}
	log.Info().Str("url", url).Int("tasks", len(results)).Int("failed", rep.Failures()).Dur("duration", rep.Duration).Msg("analysis complete")
	return rep, nil
}

func (p *Pipeline) runTasks(ctx context.Context, tasks []analyze.Task, body string) ([]Result, error) {
	results := make([]Result, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			start := time.Now()
			results[i].Task = task
			if p.FailFast {
				if err := gctx.Err(); err != nil {
					results[i].Err = err
					return err
				}
			}
			out, err := p.Analyzer.Analyze(gctx, task.Instruction, body)
			if err != nil {
				results[i].Err = err
				log.Warn().Err(err).Str("task", task.Key).Dur("duration", time.Since(start)).Msg("task failed")
				if p.FailFast {
					return fmt.Errorf("task %s: %w", task.Key, err)
				}
				return nil
			}
			results[i].Text = out
			log.Debug().Str("task", task.Key).Int("chars", len(out)).Dur("duration", time.Since(start)).Msg("task done")
			return nil
		})
	}
	return results, g.Wait()
}
