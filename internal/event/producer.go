package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moviecatalog/catalog/internal/domain"
	pkgkafka "github.com/moviecatalog/catalog/pkg/kafka"
	"github.com/moviecatalog/catalog/pkg/logger"
)

// Kafka topics for catalog domain events.
const (
	TopicUserRegistered = pkgkafka.TopicPrefix + ".user.registered"

	TopicMovieCreated = pkgkafka.TopicPrefix + ".movie.created"
	TopicMovieUpdated = pkgkafka.TopicPrefix + ".movie.updated"
	TopicMovieDeleted = pkgkafka.TopicPrefix + ".movie.deleted"

	TopicRatingCreated = pkgkafka.TopicPrefix + ".rating.created"
	TopicRatingUpdated = pkgkafka.TopicPrefix + ".rating.updated"
	TopicRatingDeleted = pkgkafka.TopicPrefix + ".rating.deleted"

	TopicReportSubmitted = pkgkafka.TopicPrefix + ".report.submitted"
	TopicReportApproved  = pkgkafka.TopicPrefix + ".report.approved"
	TopicReportRejected  = pkgkafka.TopicPrefix + ".report.rejected"
)

// Aggregate types.
const (
	AggregateTypeUser   = "user"
	AggregateTypeMovie  = "movie"
	AggregateTypeRating = "rating"
	AggregateTypeReport = "report"
)

// SourceCatalog identifies events originating from this service.
const SourceCatalog = "movie-catalog"

// Publisher is the transport the producer writes to. *pkgkafka.Producer
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// MovieData is the payload for movie.created and movie.updated events.
type MovieData struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Genre      string `json:"genre"`
	Language   string `json:"language"`
	ReleasedAt string `json:"released_at"`
	CreatedBy  string `json:"created_by"`
}

// MovieDeletedData is the payload for a movie.deleted event.
type MovieDeletedData struct {
	ID        string `json:"id"`
	DeletedBy string `json:"deleted_by"`
}

// RatingData is the payload for rating events.
type RatingData struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user_id"`
	MovieID string  `json:"movie_id"`
	Rating  float64 `json:"rating,omitempty"`
}

// ReportData is the payload for report.submitted.
type ReportData struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	MovieID string `json:"movie_id"`
	Reason  string `json:"reason"`
}

// ReportModeratedData is the payload for report.approved and report.rejected.
type ReportModeratedData struct {
	ID          string `json:"id"`
	MovieID     string `json:"movie_id"`
	Status      string `json:"status"`
	ModeratorID string `json:"moderator_id"`
}

// Producer publishes catalog domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateType, aggregateID string, data any) error {
	ev, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if actor := logger.UserIDFromContext(ctx); actor != "" {
		ev.WithActor(actor, logger.RoleFromContext(ctx))
	}

	if err := p.publisher.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
		slog.String("event_id", ev.EventID),
	)

	return nil
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, AggregateTypeUser, u.ID, UserRegisteredData{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	})
}

func movieData(m *domain.Movie) MovieData {
	return MovieData{
		ID:         m.ID,
		Title:      m.Title,
		Genre:      m.Genre,
		Language:   m.Language,
		ReleasedAt: m.ReleasedAt.String(),
		CreatedBy:  m.CreatedBy,
	}
}

// PublishMovieCreated publishes a movie.created event.
func (p *Producer) PublishMovieCreated(ctx context.Context, m *domain.Movie) error {
	return p.publish(ctx, TopicMovieCreated, AggregateTypeMovie, m.ID, movieData(m))
}

// PublishMovieUpdated publishes a movie.updated event.
func (p *Producer) PublishMovieUpdated(ctx context.Context, m *domain.Movie) error {
	return p.publish(ctx, TopicMovieUpdated, AggregateTypeMovie, m.ID, movieData(m))
}

// PublishMovieDeleted publishes a movie.deleted event.
func (p *Producer) PublishMovieDeleted(ctx context.Context, movieID, deletedBy string) error {
	return p.publish(ctx, TopicMovieDeleted, AggregateTypeMovie, movieID, MovieDeletedData{
		ID:        movieID,
		DeletedBy: deletedBy,
	})
}

// PublishRatingCreated publishes a rating.created event.
func (p *Producer) PublishRatingCreated(ctx context.Context, r *domain.Rating) error {
	return p.publish(ctx, TopicRatingCreated, AggregateTypeRating, r.ID, RatingData{
		ID: r.ID, UserID: r.UserID, MovieID: r.MovieID, Rating: r.Rating,
	})
}

// PublishRatingUpdated publishes a rating.updated event.
func (p *Producer) PublishRatingUpdated(ctx context.Context, r *domain.Rating) error {
	return p.publish(ctx, TopicRatingUpdated, AggregateTypeRating, r.ID, RatingData{
		ID: r.ID, UserID: r.UserID, MovieID: r.MovieID, Rating: r.Rating,
	})
}

// PublishRatingDeleted publishes a rating.deleted event.
func (p *Producer) PublishRatingDeleted(ctx context.Context, r *domain.Rating) error {
	return p.publish(ctx, TopicRatingDeleted, AggregateTypeRating, r.ID, RatingData{
		ID: r.ID, UserID: r.UserID, MovieID: r.MovieID,
	})
}

// PublishReportSubmitted publishes a report.submitted event.
func (p *Producer) PublishReportSubmitted(ctx context.Context, r *domain.Report) error {
	return p.publish(ctx, TopicReportSubmitted, AggregateTypeReport, r.ID, ReportData{
		ID: r.ID, UserID: r.UserID, MovieID: r.MovieID, Reason: r.Reason,
	})
}

// PublishReportModerated publishes report.approved or report.rejected
// depending on the report's current status.
func (p *Producer) PublishReportModerated(ctx context.Context, r *domain.Report, moderatorID string) error {
	topic := TopicReportApproved
	if r.CurrentStatus() == domain.ReportRejected {
		topic = TopicReportRejected
	}
	return p.publish(ctx, topic, AggregateTypeReport, r.ID, ReportModeratedData{
		ID:          r.ID,
		MovieID:     r.MovieID,
		Status:      string(r.CurrentStatus()),
		ModeratorID: moderatorID,
	})
}
