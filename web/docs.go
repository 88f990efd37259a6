package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/artpar/docgate/adapters/metrics"
	"github.com/artpar/docgate/core/openapi"
)

// CredentialVerifier authenticates basic credentials, returning the
// identity or "" when they do not match.
type CredentialVerifier interface {
	Verify(username, password string) string
}

// DocsHandler serves generated schema documents.
type DocsHandler struct {
	service  *openapi.Service
	verifier CredentialVerifier
	public   bool
	metrics  *metrics.Collector
	logger   zerolog.Logger
}

// DocsDeps contains dependencies for the docs handler.
type DocsDeps struct {
	Service  *openapi.Service
	Verifier CredentialVerifier
	// Public serves the full document to anonymous callers. When false,
	// endpoints marked protected are hidden unless the request carries
	// valid credentials.
	Public  bool
	Metrics *metrics.Collector
	Logger  zerolog.Logger
}

// NewDocsHandler creates a docs handler.
func NewDocsHandler(deps DocsDeps) *DocsHandler {
	return &DocsHandler{
		service:  deps.Service,
		verifier: deps.Verifier,
		public:   deps.Public,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// Router returns the docs router.
func (h *DocsHandler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/api.json", h.SchemaJSON)
	r.Get("/api.yaml", h.SchemaYAML)
	return r
}

// SchemaJSON serves the generated document as JSON.
func (h *DocsHandler) SchemaJSON(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.generate(w, r)
	if !ok {
		return
	}

	data, err := spec.ToJSON()
	if err != nil {
		h.logger.Error().Err(err).Msg("encode schema json")
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(data)
}

// SchemaYAML serves the generated document as YAML.
func (h *DocsHandler) SchemaYAML(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.generate(w, r)
	if !ok {
		return
	}

	data, err := spec.ToYAML()
	if err != nil {
		h.logger.Error().Err(err).Msg("encode schema yaml")
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.oai.openapi")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(data)
}

func (h *DocsHandler) generate(w http.ResponseWriter, r *http.Request) (*openapi.Spec, bool) {
	req := h.docRequest(r)

	start := time.Now()
	spec, err := h.service.Generate(r.Context(), req, h.public)
	if err != nil {
		h.logger.Error().Err(err).Msg("generate schema")
		http.Error(w, "generation failed", http.StatusInternalServerError)
		return nil, false
	}

	if h.metrics != nil {
		h.metrics.DocGenerations.WithLabelValues(req.Plugin, strconv.FormatBool(h.public)).Inc()
		h.metrics.DocGenerationDuration.Observe(time.Since(start).Seconds())
	}
	return spec, true
}

func (h *DocsHandler) docRequest(r *http.Request) *openapi.DocRequest {
	q := r.URL.Query()

	req := &openapi.DocRequest{
		Plugin:      q.Get("plugin"),
		Bindings:    q.Has("bindings"),
		IncludeHTML: q.Has("include_html"),
		BaseURL:     baseURL(r),
	}

	if h.verifier != nil {
		if user, pass, ok := r.BasicAuth(); ok {
			req.Identity = h.verifier.Verify(user, pass)
		}
	}
	return req
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
