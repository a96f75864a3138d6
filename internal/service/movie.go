package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/repository"
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
	"github.com/moviecatalog/catalog/pkg/pagination"
	"github.com/moviecatalog/catalog/pkg/tracing"
)

// Column limits for movies.
const (
	maxTitleLength    = 200
	maxGenreLength    = 100
	maxLanguageLength = 50
)

// MovieEventPublisher publishes movie events.
type MovieEventPublisher interface {
	PublishMovieCreated(ctx context.Context, movie *domain.Movie) error
	PublishMovieUpdated(ctx context.Context, movie *domain.Movie) error
	PublishMovieDeleted(ctx context.Context, movieID, deletedBy string) error
}

// MovieService implements the business logic for the movie catalog.
type MovieService struct {
	movies repository.MovieRepository
	events MovieEventPublisher
	logger *slog.Logger
}

// NewMovieService creates a new movie service.
func NewMovieService(movies repository.MovieRepository, events MovieEventPublisher, logger *slog.Logger) *MovieService {
	return &MovieService{
		movies: movies,
		events: events,
		logger: logger,
	}
}

// MovieInput holds every editable movie field.
type MovieInput struct {
	Title           string
	Description     string
	ReleasedAt      domain.Date
	DurationHours   int
	DurationMinutes int
	DurationSeconds int
	Genre           string
	Language        string
}

// UpdateMovieInput holds a partial movie update. Nil fields are unchanged.
type UpdateMovieInput struct {
	Title           *string
	Description     *string
	ReleasedAt      *domain.Date
	DurationHours   *int
	DurationMinutes *int
	DurationSeconds *int
	Genre           *string
	Language        *string
}

// Full turns a complete input into an update that sets every field.
func (in MovieInput) Full() UpdateMovieInput {
	return UpdateMovieInput{
		Title:           &in.Title,
		Description:     &in.Description,
		ReleasedAt:      &in.ReleasedAt,
		DurationHours:   &in.DurationHours,
		DurationMinutes: &in.DurationMinutes,
		DurationSeconds: &in.DurationSeconds,
		Genre:           &in.Genre,
		Language:        &in.Language,
	}
}

// List returns a page of movies with their rating aggregates.
func (s *MovieService) List(ctx context.Context, params pagination.Params) ([]domain.Movie, int, error) {
	movies, total, err := s.movies.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	return movies, total, nil
}

// Get returns a single movie with its rating aggregates.
func (s *MovieService) Get(ctx context.Context, id string) (*domain.Movie, error) {
	return s.movies.GetByID(ctx, id)
}

// Create adds a movie owned by the caller.
func (s *MovieService) Create(ctx context.Context, p domain.Principal, input MovieInput) (_ *domain.Movie, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "MovieService.Create",
		attribute.String("user.id", p.UserID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	now := time.Now().UTC()
	movie := &domain.Movie{
		ID:        uuid.New().String(),
		CreatedBy: p.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyMovieUpdate(movie, input.Full())

	if err := validateMovie(movie); err != nil {
		return nil, err
	}

	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	if err := s.events.PublishMovieCreated(ctx, movie); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish movie.created event",
			slog.String("movie_id", movie.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "movie created",
		slog.String("movie_id", movie.ID),
		slog.String("title", movie.Title),
	)

	return movie, nil
}

// Update applies a full or partial update. Only the creator or an admin may
// update a movie.
func (s *MovieService) Update(ctx context.Context, p domain.Principal, id string, input UpdateMovieInput) (_ *domain.Movie, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "MovieService.Update",
		attribute.String("movie.id", id),
		attribute.String("user.id", p.UserID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(p, movie.CreatedBy) {
		return nil, domain.ErrNotOwner
	}

	applyMovieUpdate(movie, input)
	if err := validateMovie(movie); err != nil {
		return nil, err
	}

	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}

	if err := s.events.PublishMovieUpdated(ctx, movie); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish movie.updated event",
			slog.String("movie_id", movie.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "movie updated", slog.String("movie_id", movie.ID))

	return movie, nil
}

// Delete removes a movie and, by cascade, its ratings and reports.
func (s *MovieService) Delete(ctx context.Context, p domain.Principal, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "MovieService.Delete",
		attribute.String("movie.id", id),
	)
	defer func() { tracing.EndSpan(span, err) }()

	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanModify(p, movie.CreatedBy) {
		return domain.ErrNotOwner
	}

	if err := s.movies.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	if err := s.events.PublishMovieDeleted(ctx, id, p.UserID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish movie.deleted event",
			slog.String("movie_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "movie deleted", slog.String("movie_id", id))

	return nil
}

func applyMovieUpdate(m *domain.Movie, in UpdateMovieInput) {
	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.ReleasedAt != nil {
		m.ReleasedAt = *in.ReleasedAt
	}
	if in.DurationHours != nil {
		m.DurationHours = *in.DurationHours
	}
	if in.DurationMinutes != nil {
		m.DurationMinutes = *in.DurationMinutes
	}
	if in.DurationSeconds != nil {
		m.DurationSeconds = *in.DurationSeconds
	}
	if in.Genre != nil {
		m.Genre = strings.TrimSpace(*in.Genre)
	}
	if in.Language != nil {
		m.Language = strings.TrimSpace(*in.Language)
	}
}

func validateMovie(m *domain.Movie) error {
	switch {
	case m.Title == "":
		return apperrors.InvalidInput("title is required")
	case utf8.RuneCountInString(m.Title) > maxTitleLength:
		return apperrors.InvalidInput(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	case m.ReleasedAt.IsZero():
		return apperrors.InvalidInput("released_at is required")
	case m.Genre == "":
		return apperrors.InvalidInput("genre is required")
	case utf8.RuneCountInString(m.Genre) > maxGenreLength:
		return apperrors.InvalidInput(fmt.Sprintf("genre must be at most %d characters", maxGenreLength))
	case m.Language == "":
		return apperrors.InvalidInput("language is required")
	case utf8.RuneCountInString(m.Language) > maxLanguageLength:
		return apperrors.InvalidInput(fmt.Sprintf("language must be at most %d characters", maxLanguageLength))
	case m.DurationHours < 0:
		return apperrors.InvalidInput("duration_hours must not be negative")
	case m.DurationMinutes < 0 || m.DurationMinutes > 59:
		return apperrors.InvalidInput("duration_minutes must be between 0 and 59")
	case m.DurationSeconds < 0 || m.DurationSeconds > 59:
		return apperrors.InvalidInput("duration_seconds must be between 0 and 59")
	}
	return nil
}
