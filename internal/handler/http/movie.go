package http

import (
	"log/slog"
	"net/http"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/service"
	"github.com/moviecatalog/catalog/pkg/httputil"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

// MovieHandler handles HTTP requests for movie endpoints.
type MovieHandler struct {
	service *service.MovieService
	logger  *slog.Logger
}

// NewMovieHandler creates a new movie HTTP handler.
func NewMovieHandler(svc *service.MovieService, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// MovieRequest is the JSON body for creating a movie and for PUT.
type MovieRequest struct {
	Title           string      `json:"title" validate:"required,notblank,max=200"`
	Description     string      `json:"description"`
	ReleasedAt      domain.Date `json:"released_at" validate:"required"`
	DurationHours   int         `json:"duration_hours" validate:"gte=0"`
	DurationMinutes int         `json:"duration_minutes" validate:"gte=0,lte=59"`
	DurationSeconds int         `json:"duration_seconds" validate:"gte=0,lte=59"`
	Genre           string      `json:"genre" validate:"max=100"`
	Language        string      `json:"language" validate:"max=50"`
}

func (req MovieRequest) input() service.MovieInput {
	return service.MovieInput{
		Title:           req.Title,
		Description:     req.Description,
		ReleasedAt:      req.ReleasedAt,
		DurationHours:   req.DurationHours,
		DurationMinutes: req.DurationMinutes,
		DurationSeconds: req.DurationSeconds,
		Genre:           req.Genre,
		Language:        req.Language,
	}
}

// PatchMovieRequest is the JSON body for PATCH. Absent fields are kept.
type PatchMovieRequest struct {
	Title           *string      `json:"title" validate:"omitempty,notblank,max=200"`
	Description     *string      `json:"description"`
	ReleasedAt      *domain.Date `json:"released_at"`
	DurationHours   *int         `json:"duration_hours" validate:"omitempty,gte=0"`
	DurationMinutes *int         `json:"duration_minutes" validate:"omitempty,gte=0,lte=59"`
	DurationSeconds *int         `json:"duration_seconds" validate:"omitempty,gte=0,lte=59"`
	Genre           *string      `json:"genre" validate:"omitempty,max=100"`
	Language        *string      `json:"language" validate:"omitempty,max=50"`
}

// --- Handlers ---

// List handles GET /movies/
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	movies, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writePage(w, movies, total, params)
}

// Create handles POST /movie-create/
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req MovieRequest
	if !decode(w, r, &req) {
		return
	}

	movie, err := h.service.Create(r.Context(), principal(r), req.input())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, movie)
}

// Get handles GET /movie/{id}/
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	movie, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, movie)
}

// Replace handles PUT /movie/{id}/
func (h *MovieHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req MovieRequest
	if !decode(w, r, &req) {
		return
	}

	h.update(w, r, id, req.input().Full())
}

// Patch handles PATCH /movie/{id}/
func (h *MovieHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req PatchMovieRequest
	if !decode(w, r, &req) {
		return
	}

	h.update(w, r, id, service.UpdateMovieInput{
		Title:           req.Title,
		Description:     req.Description,
		ReleasedAt:      req.ReleasedAt,
		DurationHours:   req.DurationHours,
		DurationMinutes: req.DurationMinutes,
		DurationSeconds: req.DurationSeconds,
		Genre:           req.Genre,
		Language:        req.Language,
	})
}

func (h *MovieHandler) update(w http.ResponseWriter, r *http.Request, id string, input service.UpdateMovieInput) {
	movie, err := h.service.Update(r.Context(), principal(r), id, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, movie)
}

// Delete handles DELETE /movie/{id}/
func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
