// Package web implements the web server for hiretrack: html pages and json api
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/hiretrack/app/hiring"
	"github.com/umputun/hiretrack/app/hiring/enums"
)

//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// pages rendered with the base layout, each defines "content"
var pages = []string{"home", "edit", "job", "candidate", "assessment", "error"}

// Server represents the web server
type Server struct {
	jobs              JobsRepo
	questions         QuestionsRepo
	notifier          Notifier // optional, nil if notifications disabled
	templates         map[string]*template.Template
	csrfProtection    *http.CrossOriginProtection // csrf protection for mutating endpoints
	limiter           *limiter.Limiter            // rate limiter for mutating endpoints, nil if disabled
	defaultCandidates int
	baseURL           string // base URL path for reverse proxy (e.g., /hiretrack), empty for root
	hostname          string // hostname to display in UI
	version           string
}

// JobsRepo is a job storage with embedded candidates
type JobsRepo interface {
	List() ([]hiring.Job, error)
	Get(id int) (hiring.Job, error)
	Create(req hiring.JobRequest) (hiring.Job, error)
	Update(job hiring.Job) (hiring.Job, error)
	Delete(id int) error
	Candidate(jobID, candidateID int) (hiring.Candidate, error)
	SetCandidateStatus(jobID, candidateID int, status enums.Status) (hiring.Candidate, enums.Status, error)
}

// QuestionsRepo is a per-job assessment storage
type QuestionsRepo interface {
	List(jobID int) ([]hiring.Question, error)
	Upsert(jobID int, index *int, q hiring.Question) ([]hiring.Question, error)
	Delete(jobID, index int) ([]hiring.Question, error)
}

// Notifier gets informed about candidate status changes
type Notifier interface {
	StatusChanged(ctx context.Context, job hiring.Job, c hiring.Candidate, prev enums.Status) error
}

// Config holds server configuration
type Config struct {
	Jobs              JobsRepo
	Questions         QuestionsRepo
	Notifier          Notifier // optional
	DefaultCandidates int      // candidates generated for a job created from the web form
	BaseURL           string   // base URL path for reverse proxy (e.g., /hiretrack), empty for root
	Hostname          string   // hostname to display in UI
	Version           string
	Rate              float64 // max mutating requests per second per client ip, 0 disables limiting
}

// TemplateData holds data for templates
type TemplateData struct {
	Title        string // page title
	BaseURL      string
	Hostname     string
	Version      string
	CurrentYear  int
	Jobs         []hiring.Job
	Job          hiring.Job
	Candidate    hiring.Candidate
	Statuses     []enums.Status
	Questions    []hiring.Question
	JobForm      JobForm
	QuestionForm QuestionForm
	Flash        string // one-time success message
	Error        string // form error message
	Message      string // error page message
}

// New creates a new web server
func New(cfg Config) (*Server, error) {
	if cfg.Jobs == nil || cfg.Questions == nil {
		return nil, errors.New("web server initialization failed: jobs and questions repositories are required")
	}

	s := &Server{
		jobs:              cfg.Jobs,
		questions:         cfg.Questions,
		notifier:          cfg.Notifier,
		csrfProtection:    http.NewCrossOriginProtection(),
		defaultCandidates: cfg.DefaultCandidates,
		baseURL:           strings.TrimSuffix(cfg.BaseURL, "/"),
		hostname:          cfg.Hostname,
		version:           cfg.Version,
	}

	if cfg.Rate > 0 {
		s.limiter = tollbooth.NewLimiter(cfg.Rate, nil)
		s.limiter.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"}) // rest.RealIP already resolved it
		s.limiter.SetMessage(`{"error": "too many requests"}`)
		s.limiter.SetMessageContentType("application/json")
	}

	templates, err := s.parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("web server initialization failed: failed to parse HTML templates: %w", err)
	}
	s.templates = templates

	return s, nil
}

// Run starts the web server and blocks until ctx is canceled
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s", address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// handler returns the http.Handler with base URL wrapping applied
func (s *Server) handler() http.Handler {
	routes := s.routes()
	if s.baseURL == "" {
		return routes
	}

	mux := http.NewServeMux()
	mux.HandleFunc(s.baseURL, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.baseURL+"/", http.StatusMovedPermanently)
	})
	mux.Handle(s.baseURL+"/", http.StripPrefix(s.baseURL, routes))
	return mux
}

// routes returns the http.Handler with all routes configured
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.Throttle(1000),
		rest.AppInfo("hiretrack", "umputun", s.version),
		rest.Ping,
		rest.Trace,
		rest.SizeLimit(64*1024), // 64KB max request size
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)

	mw := s.mutatingMiddleware()
	mutating := router.With(mw[0], mw[1:]...)

	// html pages
	router.HandleFunc("GET /{$}", s.handleHome)
	router.HandleFunc("GET /jobs/{id}", s.handleJob)
	router.HandleFunc("GET /jobs/{id}/edit", s.handleEditJob)
	router.HandleFunc("GET /jobs/{id}/candidates/{cid}", s.handleCandidate)
	router.HandleFunc("GET /assessment", s.handleAssessment)
	mutating.HandleFunc("POST /jobs", s.handleCreateJob)
	mutating.HandleFunc("POST /jobs/{id}", s.handleUpdateJob)
	mutating.HandleFunc("POST /jobs/{id}/delete", s.handleDeleteJob)
	mutating.HandleFunc("POST /jobs/{id}/candidates/{cid}/status", s.handleCandidateStatus)
	mutating.HandleFunc("POST /assessment/{id}/questions", s.handleSaveQuestion)
	mutating.HandleFunc("POST /assessment/{id}/questions/{idx}/delete", s.handleDeleteQuestion)
	mutating.HandleFunc("POST /assessment/{id}/save", s.handleSaveAssessment)

	// JSON API for programmatic access
	router.Mount("/api/v1").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)
		api.HandleFunc("GET /jobs", s.handleAPIListJobs)
		api.HandleFunc("GET /jobs/{id}", s.handleAPIGetJob)
		api.HandleFunc("GET /jobs/{id}/candidates/{cid}", s.handleAPIGetCandidate)
		api.HandleFunc("GET /jobs/{id}/questions", s.handleAPIListQuestions)

		apiMw := s.mutatingMiddleware()
		apiMutating := api.With(apiMw[0], apiMw[1:]...)
		apiMutating.HandleFunc("POST /jobs", s.handleAPICreateJob)
		apiMutating.HandleFunc("PUT /jobs/{id}", s.handleAPIUpdateJob)
		apiMutating.HandleFunc("DELETE /jobs/{id}", s.handleAPIDeleteJob)
		apiMutating.HandleFunc("PUT /jobs/{id}/candidates/{cid}/status", s.handleAPISetStatus)
		apiMutating.HandleFunc("POST /jobs/{id}/questions", s.handleAPIAddQuestion)
		apiMutating.HandleFunc("PUT /jobs/{id}/questions/{idx}", s.handleAPIUpdateQuestion)
		apiMutating.HandleFunc("DELETE /jobs/{id}/questions/{idx}", s.handleAPIDeleteQuestion)
	})

	fsys, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Printf("[ERROR] failed to create static file system: %v", err)
		router.Handle("GET /static/", http.FileServer(http.FS(staticFS)))
	} else {
		router.HandleFiles("/static/", http.FS(fsys))
	}

	return router
}

// mutatingMiddleware returns csrf protection and, if enabled, rate limiting
func (s *Server) mutatingMiddleware() []func(http.Handler) http.Handler {
	res := []func(http.Handler) http.Handler{s.csrfProtection.Handler}
	if s.limiter != nil {
		res = append(res, tollbooth.HTTPMiddleware(s.limiter))
	}
	return res
}

// newTemplateData creates a TemplateData with common fields populated
func (s *Server) newTemplateData(title string) TemplateData {
	return TemplateData{
		Title:       title,
		BaseURL:     s.baseURL,
		Hostname:    s.hostname,
		Version:     shortVersion(s.version),
		CurrentYear: time.Now().Year(),
		Statuses:    enums.StatusValues(),
	}
}

// render executes page template into a buffer and writes it with the given status code
func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := s.templates[page]
	if !ok {
		log.Printf("[WARN] template %s not found", page)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		log.Printf("[WARN] failed to execute template %s: %v", page, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] failed to write response: %v", err)
	}
}

// parseTemplates parses every page together with the base layout and partials
func (s *Server) parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))

	funcMap := template.FuncMap{
		"truncateWords": truncateWords,
		"url":           s.url,
		"inc":           func(i int) int { return i + 1 },
		"letter":        func(i int) string { return string(rune('A' + i)) },
		"join":          strings.Join,
		"questionItem": func(jobID, idx int, q hiring.Question) questionItem {
			return questionItem{JobID: jobID, Index: idx, Question: q}
		},
	}

	for _, page := range pages {
		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(templatesFS,
			"templates/base.html", "templates/"+page+".html", "templates/partials/*.html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		templates[page] = tmpl
	}
	return templates, nil
}

// questionItem is the data of a single entry in the question list
type questionItem struct {
	JobID    int
	Index    int
	Question hiring.Question
}

// truncateWords keeps first n space-separated words, adding ellipsis if anything was cut
func truncateWords(str string, n int) string {
	words := strings.Split(str, " ")
	if len(words) <= n {
		return str
	}
	return strings.Join(words[:n], " ") + "..."
}

// url prepends the base URL to a path for reverse proxy support
func (s *Server) url(path string) string {
	return s.baseURL + path
}

// shortVersion extracts a short version string from full version
// for version like "v1.7.0-abc1234-20241225", returns "v1.7.0"
func shortVersion(fullVer string) string {
	if fullVer == "" || fullVer == "unknown" {
		return fullVer
	}
	if idx := strings.Index(fullVer, "-"); idx > 0 {
		return fullVer[:idx]
	}
	return fullVer
}
