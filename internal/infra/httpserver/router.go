package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	apptrend "github.com/bryanwahyu/journal-guard/internal/application/trend"
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
	"github.com/bryanwahyu/journal-guard/internal/domain/crisis"
	"github.com/bryanwahyu/journal-guard/internal/domain/trend"
	"github.com/bryanwahyu/journal-guard/internal/middleware"
)

// Analyzer runs one journal analysis.
type Analyzer interface {
	Analyze(ctx context.Context, text, userID string) (analysis.Result, error)
}

// Reporter builds and exports trend reports.
type Reporter interface {
	Report(ctx context.Context, userID string, days int) (*trend.Report, error)
	Export(ctx context.Context, userID string, days int) (string, error)
}

// CrisisLog lists alerts and notifications.
type CrisisLog interface {
	AlertsFor(ctx context.Context, userID string, days int) ([]*crisis.Alert, error)
	NotificationsFor(ctx context.Context, userID string, limit int) ([]*crisis.Notification, error)
}

// Options carries the cross-cutting pieces of the HTTP surface. Nil fields are skipped.
type Options struct {
	Middlewares []func(http.Handler) http.Handler
	Health      http.HandlerFunc
	Metrics     http.HandlerFunc
	CORSOrigins []string
}

type Router struct {
	analyzer Analyzer
	reports  Reporter
	crisis   CrisisLog
}

func NewRouter(analyzer Analyzer, reports Reporter, crisisLog CrisisLog, opts Options) http.Handler {
	r := &Router{analyzer: analyzer, reports: reports, crisis: crisisLog}
	mux := chi.NewRouter()

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	for _, mw := range opts.Middlewares {
		mux.Use(mw)
	}

	if opts.Health != nil {
		mux.Get("/health", opts.Health)
	} else {
		mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})
	}
	if opts.Metrics != nil {
		mux.Get("/metrics", opts.Metrics)
	}

	mux.Route("/v1/users/{user}", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleAnalyze))
		rt.Get("/report", r.wrap(r.handleReport))
		rt.Post("/report/export", r.wrap(r.handleExport))
		rt.Get("/alerts", r.wrap(r.handleAlerts))
		rt.Get("/notifications", r.wrap(r.handleNotifications))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks errors caused by the request itself.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var br badRequest
		switch {
		case errors.As(err, &br), errors.Is(err, analysis.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, apptrend.ErrArchiveDisabled):
			writeError(w, http.StatusNotImplemented, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func userParam(req *http.Request) (string, error) {
	user := chi.URLParam(req, "user")
	if err := middleware.ValidateUserID(user); err != nil {
		return "", badRequest{err.Error()}
	}
	return user, nil
}

func intQuery(req *http.Request, key string) (int, error) {
	raw := req.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest{key + " must be an integer"}
	}
	return n, nil
}

// POST /v1/users/{user}/analyses
// Body: {"text": "..."}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	var body struct {
		Text string `json:"text"`
	}
	req.Body = http.MaxBytesReader(w, req.Body, 1<<20)
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{"invalid JSON body"}
	}
	text := middleware.SanitizeString(body.Text)
	if err := middleware.ValidateEntry(text); err != nil {
		return badRequest{err.Error()}
	}

	res, err := r.analyzer.Analyze(req.Context(), text, user)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/users/{user}/report?days=30
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	days, err := intQuery(req, "days")
	if err != nil {
		return err
	}
	rep, err := r.reports.Report(req.Context(), user, middleware.ValidateDays(days))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

// POST /v1/users/{user}/report/export?days=30
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	days, err := intQuery(req, "days")
	if err != nil {
		return err
	}
	url, err := r.reports.Export(req.Context(), user, middleware.ValidateDays(days))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// GET /v1/users/{user}/alerts?days=30
func (r *Router) handleAlerts(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	days, err := intQuery(req, "days")
	if err != nil {
		return err
	}
	list, err := r.crisis.AlertsFor(req.Context(), user, middleware.ValidateDays(days))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*crisis.Alert{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/users/{user}/notifications?limit=20
func (r *Router) handleNotifications(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	limit, err := intQuery(req, "limit")
	if err != nil {
		return err
	}
	list, err := r.crisis.NotificationsFor(req.Context(), user, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*crisis.Notification{}
	}
	return writeJSON(w, http.StatusOK, list)
}
