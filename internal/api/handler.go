package api

import (
	"bytes"
	"context"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/mapper"
	"github.com/wgomg/wordcloud/internal/metrics"
	"github.com/wgomg/wordcloud/internal/processor"
	"github.com/wgomg/wordcloud/internal/render"
	"github.com/wgomg/wordcloud/internal/session"
	"github.com/wgomg/wordcloud/internal/utils"
	"github.com/wgomg/wordcloud/internal/utils/httputils"
)

var tracer = otel.Tracer("github.com/wgomg/wordcloud/internal/api")

type Handler struct {
	logger    *utils.Logger
	processor *processor.Processor
	placer    layout.Placer
	exporter  *render.Exporter
	sessions  *session.Store
	metrics   *metrics.Collector

	defaults      mapper.VisualConfig
	defaultBounds layout.Bounds
	timeout       time.Duration
}

type Deps struct {
	Logger    *utils.Logger
	Processor *processor.Processor
	Placer    layout.Placer
	Exporter  *render.Exporter
	Sessions  *session.Store
	Metrics   *metrics.Collector

	Defaults mapper.VisualConfig
	Bounds   layout.Bounds
	Timeout  time.Duration
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		logger:        d.Logger,
		processor:     d.Processor,
		placer:        d.Placer,
		exporter:      d.Exporter,
		sessions:      d.Sessions,
		metrics:       d.Metrics,
		defaults:      d.Defaults,
		defaultBounds: d.Bounds,
		timeout:       d.Timeout,
	}
}

func (h *Handler) log(r *http.Request) *utils.Logger {
	return h.logger.With(middleware.GetReqID(r.Context()))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	err = toHTTPError(err)
	h.log(r).Error("%s: %v", msg, err)
	trace.SpanFromContext(r.Context()).RecordError(err)
	httputils.HandleError(w, err)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputils.JSONResponse(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Sessions: h.sessions.Len(),
	})
}

// newCloudOptions seeds a request with the server defaults before decoding.
func (h *Handler) newCloudOptions() CloudOptions {
	return h.withDefaults(CloudOptions{})
}

// withDefaults fills sections a client explicitly nulled out.
func (h *Handler) withDefaults(o CloudOptions) CloudOptions {
	if o.Config == nil {
		cfg := h.defaults
		cfg.RotationAngles = append([]int(nil), h.defaults.RotationAngles...)
		o.Config = &cfg
	}
	if o.Layout == nil {
		lo := layoutOptionsFrom(h.defaultBounds)
		o.Layout = &lo
	}
	return o
}

func (h *Handler) HandleCreateCloud(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.CreateCloud")
	defer span.End()
	r = r.WithContext(ctx)

	if _, err := httputils.LogRequestBody(r, h.log(r)); err != nil {
		h.fail(w, r, "Failed to read request body", err)
		return
	}

	req := CloudRequest{CloudOptions: h.newCloudOptions()}
	if err := httputils.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "JSON decode error", err)
		return
	}

	resp, err := h.build(ctx, r, req.Text, req.CloudOptions)
	if err != nil {
		h.fail(w, r, "Failed to build cloud", err)
		return
	}

	if err := httputils.JSONResponse(w, http.StatusOK, resp); err != nil {
		h.log(r).Error("Error sending response: %v", err)
	}
}

func (h *Handler) HandleExportCloud(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.ExportCloud")
	defer span.End()
	r = r.WithContext(ctx)

	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.fail(w, r, "Export format error", err)
		return
	}

	req := CloudRequest{CloudOptions: h.newCloudOptions()}
	if err := httputils.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "JSON decode error", err)
		return
	}
	req.Place = true

	h.export(w, r, format, req.Text, req.CloudOptions)
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	h.metrics.Sessions.Set(float64(h.sessions.Len()))
	h.log(r).Info("Created session %s", s.ID)

	if err := httputils.JSONResponse(w, http.StatusCreated, s); err != nil {
		h.log(r).Error("Error sending response: %v", err)
	}
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get session", err)
		return
	}
	httputils.JSONResponse(w, http.StatusOK, s)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Delete(id); err != nil {
		h.fail(w, r, "Failed to delete session", err)
		return
	}
	h.metrics.Sessions.Set(float64(h.sessions.Len()))
	h.log(r).Info("Deleted session %s", id)

	if err := httputils.SuccessResponse(w, "Session deleted", nil); err != nil {
		h.log(r).Error("Error sending response: %v", err)
	}
}

func (h *Handler) HandleSetDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := httputils.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "JSON decode error", err)
		return
	}

	s, err := h.sessions.SetDraft(chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.fail(w, r, "Failed to set draft", err)
		return
	}
	httputils.JSONResponse(w, http.StatusOK, s)
}

func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Commit(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to commit draft", err)
		return
	}
	h.log(r).Debug("Session %s committed revision %d (%s)", s.ID, s.Revision, utils.Truncate(s.Committed, 80))
	httputils.JSONResponse(w, http.StatusOK, s)
}

// HandleSessionCloud builds a cloud from the committed text only; pending
// draft edits are ignored until the next commit.
func (h *Handler) HandleSessionCloud(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.SessionCloud")
	defer span.End()
	r = r.WithContext(ctx)

	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get session", err)
		return
	}
	span.SetAttributes(attribute.String("session.id", s.ID), attribute.Int("session.revision", s.Revision))

	opts := h.newCloudOptions()
	if err := httputils.DecodeOptionalJSON(r, &opts); err != nil {
		h.fail(w, r, "JSON decode error", err)
		return
	}

	resp, err := h.build(ctx, r, s.Committed, opts)
	if err != nil {
		h.fail(w, r, "Failed to build cloud", err)
		return
	}
	resp.Revision = s.Revision

	if err := httputils.JSONResponse(w, http.StatusOK, resp); err != nil {
		h.log(r).Error("Error sending response: %v", err)
	}
}

func (h *Handler) HandleSessionExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.SessionExport")
	defer span.End()
	r = r.WithContext(ctx)

	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.fail(w, r, "Export format error", err)
		return
	}

	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get session", err)
		return
	}

	opts := h.newCloudOptions()
	if err := httputils.DecodeOptionalJSON(r, &opts); err != nil {
		h.fail(w, r, "JSON decode error", err)
		return
	}
	opts.Place = true

	h.export(w, r, format, s.Committed, opts)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, format render.Format, text string, opts CloudOptions) {
	opts = h.withDefaults(opts)
	resp, err := h.build(r.Context(), r, text, opts)
	if err != nil {
		h.fail(w, r, "Failed to build cloud", err)
		return
	}

	var buf bytes.Buffer
	err = h.exporter.Export(&buf, format, *resp.Layout, opts.Layout.Bounds(), render.StyleFromConfig(*opts.Config))
	h.metrics.RecordExport(string(format), err)
	if err != nil {
		h.fail(w, r, "Export failed", err)
		return
	}

	h.log(r).Info("Exported %s: %d bytes, %d words placed", format, buf.Len(), resp.Layout.Placed)
	if err := httputils.BinaryResponse(w, format.ContentType(), "wordcloud"+format.Extension(), buf.Bytes()); err != nil {
		h.log(r).Error("Error sending response: %v", err)
	}
}

// build runs generation and, when asked, placement. Bounds are validated up
// front so a bad layout fails before any text is processed.
func (h *Handler) build(ctx context.Context, r *http.Request, text string, opts CloudOptions) (*CloudResponse, error) {
	opts = h.withDefaults(opts)
	var bounds layout.Bounds
	if opts.Place {
		bounds = opts.Layout.Bounds()
		bounds.MaxSide = h.defaultBounds.MaxSide
		if err := bounds.Validate(); err != nil {
			return nil, err
		}
	}

	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	cloud, err := h.processor.Generate(ctx, text, *opts.Config, mapper.NewRandomSource(seed))
	if err != nil {
		h.metrics.RecordCloud(outcome(err), 0)
		return nil, err
	}
	h.metrics.RecordCloud(metrics.OutcomeOK, len(cloud.Words))

	resp := &CloudResponse{
		Words: cloud.Words,
		Range: cloud.Range,
		Stats: cloud.Stats,
		Seed:  seed,
	}
	if !opts.Place {
		return resp, nil
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	res, err := h.processor.Layout(ctx, cloud, h.placer, bounds)
	if err != nil {
		return nil, err
	}
	h.metrics.WordsSkipped.Add(float64(res.Skipped))
	h.log(r).Debug("Placed %d words, skipped %d", res.Placed, res.Skipped)

	resp.Layout = &res
	return resp, nil
}

func outcome(err error) string {
	switch {
	case mapper.IsInvalidConfiguration(err):
		return metrics.OutcomeInvalidConfig
	case mapper.IsEmptyWorkingSet(err):
		return metrics.OutcomeEmpty
	default:
		return metrics.OutcomeError
	}
}
