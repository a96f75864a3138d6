package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/repository"
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
	"github.com/moviecatalog/catalog/pkg/pagination"
	"github.com/moviecatalog/catalog/pkg/tracing"
)

// RatingEventPublisher publishes rating events.
type RatingEventPublisher interface {
	PublishRatingCreated(ctx context.Context, rating *domain.Rating) error
	PublishRatingUpdated(ctx context.Context, rating *domain.Rating) error
	PublishRatingDeleted(ctx context.Context, rating *domain.Rating) error
}

// RatingService implements the business logic for ratings.
type RatingService struct {
	ratings repository.RatingRepository
	movies  repository.MovieRepository
	events  RatingEventPublisher
	logger  *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(
	ratings repository.RatingRepository,
	movies repository.MovieRepository,
	events RatingEventPublisher,
	logger *slog.Logger,
) *RatingService {
	return &RatingService{
		ratings: ratings,
		movies:  movies,
		events:  events,
		logger:  logger,
	}
}

var errRatingRange = apperrors.InvalidInput(
	fmt.Sprintf("rating must be between %.0f and %.0f", domain.MinRating, domain.MaxRating),
)

// Create records the caller's rating for a movie. Each user rates a movie
// at most once.
func (s *RatingService) Create(ctx context.Context, p domain.Principal, movieID string, value float64) (_ *domain.Rating, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "RatingService.Create",
		attribute.String("movie.id", movieID),
		attribute.String("user.id", p.UserID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	if !domain.ValidRating(value) {
		return nil, errRatingRange
	}

	exists, err := s.ratings.ExistsForUser(ctx, p.UserID, movieID)
	if err != nil {
		return nil, fmt.Errorf("check existing rating: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateRating
	}

	rating := &domain.Rating{
		ID:        uuid.New().String(),
		UserID:    p.UserID,
		MovieID:   movieID,
		Rating:    value,
		CreatedAt: time.Now().UTC(),
	}

	// The unique constraint catches a concurrent duplicate that slipped past
	// the check above; the repository maps it to ErrDuplicateRating.
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}
	ratingsCreated.Inc()

	if err := s.events.PublishRatingCreated(ctx, rating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish rating.created event",
			slog.String("rating_id", rating.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "rating created",
		slog.String("rating_id", rating.ID),
		slog.String("movie_id", movieID),
		slog.Float64("rating", value),
	)

	return rating, nil
}

// ListForMovie returns a page of a movie's ratings. An unknown movie yields
// an empty page.
func (s *RatingService) ListForMovie(ctx context.Context, movieID string, params pagination.Params) ([]domain.Rating, int, error) {
	ratings, total, err := s.ratings.ListByMovie(ctx, movieID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, total, nil
}

// Get returns a rating. Any authenticated caller may read it.
func (s *RatingService) Get(ctx context.Context, id string) (*domain.Rating, error) {
	return s.ratings.GetByID(ctx, id)
}

// Update changes the value of a rating owned by the caller.
func (s *RatingService) Update(ctx context.Context, p domain.Principal, id string, value float64) (_ *domain.Rating, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "RatingService.Update",
		attribute.String("rating.id", id),
	)
	defer func() { tracing.EndSpan(span, err) }()

	rating, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(p, rating.UserID) {
		return nil, domain.ErrNotOwner
	}
	if !domain.ValidRating(value) {
		return nil, errRatingRange
	}

	rating.Rating = value
	if err := s.ratings.Update(ctx, rating); err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}

	if err := s.events.PublishRatingUpdated(ctx, rating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish rating.updated event",
			slog.String("rating_id", rating.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "rating updated", slog.String("rating_id", id))

	return rating, nil
}

// Delete removes a rating owned by the caller.
func (s *RatingService) Delete(ctx context.Context, p domain.Principal, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "RatingService.Delete",
		attribute.String("rating.id", id),
	)
	defer func() { tracing.EndSpan(span, err) }()

	rating, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanModify(p, rating.UserID) {
		return domain.ErrNotOwner
	}

	if err := s.ratings.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}

	if err := s.events.PublishRatingDeleted(ctx, rating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish rating.deleted event",
			slog.String("rating_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "rating deleted", slog.String("rating_id", id))

	return nil
}
