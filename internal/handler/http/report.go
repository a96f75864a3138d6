package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/service"
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
	"github.com/moviecatalog/catalog/pkg/httputil"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

// ReportHandler handles HTTP requests for report and moderation endpoints.
type ReportHandler struct {
	service *service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report HTTP handler.
func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{service: svc, logger: logger}
}

// ReportRequest is the JSON body for submitting a report or changing its
// reason.
type ReportRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=256"`
}

// List handles GET /{movieId}/report/. Only the caller's own reports are
// returned.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieId")
	if !ok {
		return
	}
	params := pagination.FromRequest(r)

	reports, total, err := h.service.ListForMovie(r.Context(), principal(r), movieID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writePage(w, reports, total, params)
}

// Create handles POST /{movieId}/report-create/
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieId")
	if !ok {
		return
	}

	var req ReportRequest
	if !decode(w, r, &req) {
		return
	}

	report, err := h.service.Submit(r.Context(), principal(r), movieID, req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, report)
}

// Get handles GET /report/{id}/
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.service.Get(r.Context(), principal(r), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, report)
}

// Update handles PUT and PATCH /report/{id}/. Only the reason changes.
func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req ReportRequest
	if !decode(w, r, &req) {
		return
	}

	report, err := h.service.UpdateReason(r.Context(), principal(r), id, req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, report)
}

// Delete handles DELETE /report/{id}/
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal(r), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAll handles GET /admin-report/?status=pending|approved|rejected
func (h *ReportHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	var status *domain.ReportStatus
	if v := r.URL.Query().Get("status"); v != "" {
		if !domain.IsValidReportStatus(v) {
			httputil.WriteError(w, r, apperrors.InvalidInput(fmt.Sprintf("unknown report status %q", v)), h.logger)
			return
		}
		s := domain.ReportStatus(v)
		status = &s
	}

	reports, total, err := h.service.ListAll(r.Context(), principal(r), status, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writePage(w, reports, total, params)
}

// Approve handles PUT and PATCH /report-approve/{id}/
func (h *ReportHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Approve)
}

// Reject handles PUT and PATCH /report-reject/{id}/
func (h *ReportHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Reject)
}

func (h *ReportHandler) moderate(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, p domain.Principal, id string) (*domain.Report, error),
) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	report, err := action(r.Context(), principal(r), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, report)
}

// StatusCounts handles GET /report-status/
func (h *ReportHandler) StatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.StatusCounts(r.Context(), principal(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, counts)
}
