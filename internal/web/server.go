package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/newslens/internal/analyze"
	"github.com/hyperifyio/newslens/internal/pipeline"
	"github.com/hyperifyio/newslens/internal/report"
)

//go:embed assets/index.html
var assets embed.FS

// BlankURLWarning is shown when the form is submitted without a URL.
const BlankURLWarning = "Please enter a valid URL."

// DefaultRequestTimeout bounds one page or API request, including every
// completion call it triggers.
const DefaultRequestTimeout = 2 * time.Minute

var page = template.Must(template.ParseFS(assets, "assets/index.html"))

// Runner executes one analysis run.
type Runner interface {
	Run(ctx context.Context, url string) (pipeline.Report, error)
}

// Server serves the analysis page and the JSON API.
type Server struct {
	Runner Runner
	Tasks  []analyze.Task
	// Logger receives access logs. Zero value uses the global logger.
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Handler builds the chi router with middleware and routes.
func (s *Server) Handler() http.Handler {
	logger := log.Logger
	if s.Logger != nil {
		logger = *s.Logger
	}
	timeout := s.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("req_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleForm)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/report.pdf", s.handlePDF)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/tasks", s.handleTasks)
		r.Post("/analyze", s.handleAnalyze)
	})
	return r
}

type slot struct {
	Key   string
	Label string
	HTML  template.HTML
	Err   string
}

type pageData struct {
	URL           string
	Warning       string
	Error         string
	Done          bool
	Title         string
	QuickHeading  string
	FullHeading   string
	SuccessNotice string
	Quick         [3][]slot
	Full          [3][]slot
}

func newPageData(url string) pageData {
	return pageData{
		URL:           url,
		QuickHeading:  report.QuickHeading,
		FullHeading:   report.FullHeading,
		SuccessNotice: report.SuccessNotice,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, newPageData(""))
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	url := strings.TrimSpace(r.PostFormValue("url"))
	data := newPageData(url)
	if url == "" {
		data.Warning = BlankURLWarning
		render(w, r, http.StatusOK, data)
		return
	}

	rep, err := s.Runner.Run(r.Context(), url)
	switch {
	case errors.Is(err, pipeline.ErrBlankURL):
		data.Warning = BlankURLWarning
	case rep.Article.Failed():
		data.Error = rep.Article.Message()
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("url", url).Msg("analysis failed")
		data.Error = err.Error()
	default:
		data.Done = true
		data.Title = rep.Article.Title
		for _, res := range rep.Results {
			sl := slot{Key: res.Task.Key, Label: res.Task.Label}
			if res.Err != nil {
				sl.Err = res.Err.Error()
			} else {
				sl.HTML = renderMarkdown(res.Text)
			}
			col := res.Task.Column
			if col < 0 || col > 2 {
				col = 0
			}
			if res.Task.Group == analyze.GroupQuick {
				data.Quick[col] = append(data.Quick[col], sl)
			} else {
				data.Full[col] = append(data.Full[col], sl)
			}
		}
	}
	render(w, r, http.StatusOK, data)
}

func render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: BlankURLWarning})
		return
	}
	rep, err := s.Runner.Run(r.Context(), req.URL)
	switch {
	case errors.Is(err, pipeline.ErrBlankURL):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: BlankURLWarning})
	case rep.Article.Failed():
		writeJSON(w, http.StatusUnprocessableEntity, report.ToJSON(rep))
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("url", req.URL).Msg("analysis failed")
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, report.ToJSON(rep))
	}
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.Tasks
	if tasks == nil {
		tasks = analyze.DefaultTasks()
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		http.Error(w, BlankURLWarning, http.StatusBadRequest)
		return
	}
	rep, err := s.Runner.Run(r.Context(), url)
	if rep.Article.Failed() {
		http.Error(w, rep.Article.Message(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, report.Markdown(rep)); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render pdf")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="report.pdf"`)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
