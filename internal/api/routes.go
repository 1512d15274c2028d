package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	CORSOrigins  []string
	MaxBodyBytes int64
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(h.instrument)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))
	if opts.MaxBodyBytes > 0 {
		router.Use(middleware.RequestSize(opts.MaxBodyBytes))
	}

	router.Get("/health", h.HandleHealth)
	router.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	router.Route("/clouds", func(r chi.Router) {
		r.Post("/", h.HandleCreateCloud)
		r.Post("/export/{format}", h.HandleExportCloud)
	})

	router.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.HandleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)
			r.Put("/draft", h.HandleSetDraft)
			r.Post("/commit", h.HandleCommit)
			r.Post("/cloud", h.HandleSessionCloud)
			r.Post("/export/{format}", h.HandleSessionExport)
		})
	})

	return router
}

// instrument logs every request and records it under its route pattern.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = routeLabel(rctx.RoutePattern())
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		h.metrics.RecordHTTPRequest(r.Method, route, status, elapsed)
		h.log(r).Info("%s %s -> %d (%s)", r.Method, r.URL.Path, status, elapsed.Round(time.Microsecond))
	})
}

// routeLabel keeps metric labels stable whether or not chi records the
// trailing slash of a subrouter's root.
func routeLabel(pattern string) string {
	pattern = strings.TrimSuffix(pattern, "/*")
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}
	if pattern == "" {
		return "unmatched"
	}
	return pattern
}
