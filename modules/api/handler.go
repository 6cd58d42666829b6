package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/izniy/NexusBook/common"
	"github.com/izniy/NexusBook/common/model"
	"github.com/izniy/NexusBook/modules/directory"
)

// Directory is the subset of directory.Service the handler serves.
type Directory interface {
	Get(ctx context.Context, id string) (model.ContactView, error)
	Paginate(ctx context.Context, page, limit int) (model.Page, error)
	ToggleFavorite(ctx context.Context, id string) (model.ContactView, error)
	Refresh(ctx context.Context) (int, error)
	State() directory.State
}

// Handler provides HTTP access to the contact directory.
type Handler struct {
	Directory    Directory
	DefaultLimit int
	Logger       *slog.Logger
	Metrics      *common.Metrics
	Gatherer     prometheus.Gatherer
	MetricsPath  string
	HealthzPath  string

	root http.Handler
}

// NewHandler constructs the contacts HTTP handler. Zero-valued fields fall
// back to the defaults in package common.
func NewHandler(d Directory, cfg common.Config, logger *slog.Logger, metrics *common.Metrics, gatherer prometheus.Gatherer) *Handler {
	h := &Handler{
		Directory:    d,
		DefaultLimit: cfg.DefaultLimit,
		Logger:       logger,
		Metrics:      metrics,
		Gatherer:     gatherer,
		MetricsPath:  cfg.MetricsPath,
		HealthzPath:  cfg.HealthzPath,
	}
	if h.DefaultLimit < 1 {
		h.DefaultLimit = common.DefaultPageLimit
	}
	if h.Logger == nil {
		h.Logger = common.DiscardLogger()
	}
	if h.MetricsPath == "" {
		h.MetricsPath = "/metrics"
	}
	if h.HealthzPath == "" {
		h.HealthzPath = "/healthz"
	}
	h.routes()
	return h
}

func (h *Handler) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /contacts", h.handleList)
	mux.HandleFunc("GET /contacts/{id}", h.handleGet)
	mux.HandleFunc("PATCH /contacts/{id}/favorite", h.handleToggleFavorite)
	mux.HandleFunc("POST /contacts/refresh", h.handleRefresh)
	mux.HandleFunc("GET "+h.HealthzPath, h.handleHealthz)
	if h.Gatherer != nil {
		mux.Handle("GET "+h.MetricsPath, promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{}))
	}
	h.root = withRequestID(withCORS(withAccessLog(mux, h.Logger, h.Metrics)))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Directory == nil {
		writeError(w, http.StatusInternalServerError, "contact directory not configured")
		return
	}
	h.root.ServeHTTP(w, r)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intParam(r, "limit", h.DefaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Directory.Paginate(r.Context(), page, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	contact, err := h.Directory.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	contact, err := h.Directory.ToggleFavorite(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	total, err := h.Directory.Refresh(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"state":  h.Directory.State().String(),
	})
}

// fail maps a directory error onto a status code. Upstream details are
// logged, not returned to the caller.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, directory.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, directory.ErrUpstreamConfigMissing):
		h.Logger.Error("upstream not configured", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, directory.ErrUpstreamConfigMissing.Error())
	case errors.Is(err, directory.ErrUpstreamUnavailable):
		h.Logger.Error("upstream unavailable", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, directory.ErrUpstreamUnavailable.Error())
	default:
		h.Logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
