package http

import (
	"log/slog"
	"net/http"

	"github.com/moviecatalog/catalog/internal/service"
	"github.com/moviecatalog/catalog/pkg/httputil"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

// RatingHandler handles HTTP requests for rating endpoints.
type RatingHandler struct {
	service *service.RatingService
	logger  *slog.Logger
}

// NewRatingHandler creates a new rating HTTP handler.
func NewRatingHandler(svc *service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{service: svc, logger: logger}
}

// RatingRequest is the JSON body for creating or changing a rating. The
// range is checked by the service.
type RatingRequest struct {
	Rating *float64 `json:"rating" validate:"required"`
}

// List handles GET /{movieId}/rating/
func (h *RatingHandler) List(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieId")
	if !ok {
		return
	}
	params := pagination.FromRequest(r)

	ratings, total, err := h.service.ListForMovie(r.Context(), movieID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writePage(w, ratings, total, params)
}

// Create handles POST /{movieId}/rating-create/
func (h *RatingHandler) Create(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieId")
	if !ok {
		return
	}

	var req RatingRequest
	if !decode(w, r, &req) {
		return
	}

	rating, err := h.service.Create(r.Context(), principal(r), movieID, *req.Rating)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, rating)
}

// Get handles GET /rating/{id}/
func (h *RatingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rating, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, rating)
}

// Update handles PUT and PATCH /rating/{id}/. The value is the only
// editable field, so both verbs behave the same.
func (h *RatingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req RatingRequest
	if !decode(w, r, &req) {
		return
	}

	rating, err := h.service.Update(r.Context(), principal(r), id, *req.Rating)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, rating)
}

// Delete handles DELETE /rating/{id}/
func (h *RatingHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
