package daemon

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"filmstrip/internal/logging"
	"filmstrip/internal/pipeline"
	"filmstrip/internal/services"
)

// newRouter assembles the daemon API. Artifacts published by the localfs
// adapter are served from the same process under /artifacts.
func newRouter(d *Daemon) chi.Router {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(requestLogMiddleware(d.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/jobs", d.handleSubmit)
		r.Get("/jobs", d.handleListJobs)
		r.Get("/jobs/{jobID}", d.handleGetJob)
		r.Get("/health", d.handleHealth)
		r.Get("/version", d.handleVersion)
	})

	fileServer := http.FileServer(http.Dir(d.cfg.Publish.OutputDir))
	r.Handle("/artifacts/*", http.StripPrefix("/artifacts/", fileServer))

	return r
}

// requestIDMiddleware stamps every request with a correlation id carried
// through the pipeline's logging context.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), requestID)))
	})
}

func requestLogMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			wrapped := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(wrapped, r)
			logging.WithContext(r.Context(), logger).Debug("api request",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", wrapped.Status()),
				logging.Duration("elapsed", time.Since(started)))
		})
	}
}

func (d *Daemon) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON request body: " + err.Error()})
		return
	}

	requestID, _ := services.RequestIDFromContext(r.Context())
	resp, err := d.pipe.Run(r.Context(), pipeline.Request{
		JobID:         req.JobID,
		RequestID:     requestID,
		Segments:      req.Segments,
		Resolution:    req.Resolution,
		SubtitleStyle: req.SubtitleStyle,
	})
	if err != nil {
		writeJSON(w, services.HTTPStatus(err), errorPayload(err))
		return
	}
	writeJSON(w, http.StatusOK, RenderResponse{JobID: resp.JobID, URL: resp.URL})
}

// errorPayload shapes a pipeline failure for the wire. Pipeline errors are
// already environment-gated; anything else is reduced to its message.
func errorPayload(err error) ErrorResponse {
	var pipeErr *pipeline.Error
	if errors.As(err, &pipeErr) {
		return ErrorResponse{Error: pipeErr.Message, WorkspacePath: pipeErr.WorkspacePath}
	}
	return ErrorResponse{Error: services.Message(err)}
}

func (d *Daemon) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := d.registry.List()
	views := make([]JobView, len(jobs))
	for i, j := range jobs {
		views[i] = ViewFromJob(j)
	}
	writeJSON(w, http.StatusOK, JobListResponse{Jobs: views})
}

func (d *Daemon) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	stored, ok := d.registry.Get(jobID)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "unknown job " + jobID})
		return
	}
	writeJSON(w, http.StatusOK, ViewFromJob(stored))
}

func (d *Daemon) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := d.pipe.Health(r.Context())
	views := make([]HealthCheckView, len(checks))
	status := "ok"
	for i, check := range checks {
		views[i] = HealthCheckView{Name: check.Name, Ready: check.Ready, Detail: check.Detail}
		if !check.Ready {
			status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  status,
		Uptime:  int64(time.Since(d.startedAt).Seconds()),
		Checks:  views,
		Version: Version,
	})
}

func (d *Daemon) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version:     Version,
		Environment: d.cfg.Daemon.Environment,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}
