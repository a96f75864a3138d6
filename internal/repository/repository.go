package repository

import (
	"context"
	"time"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user. A taken username or email yields an
	// ALREADY_EXISTS error.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user.
	Update(ctx context.Context, user *domain.User) error
}

// MovieRepository defines the interface for movie persistence operations.
// Reads fill the derived AverageRating and TotalRatings fields.
type MovieRepository interface {
	Create(ctx context.Context, movie *domain.Movie) error
	GetByID(ctx context.Context, id string) (*domain.Movie, error)
	List(ctx context.Context, params pagination.Params) ([]domain.Movie, int, error)
	Update(ctx context.Context, movie *domain.Movie) error
	Delete(ctx context.Context, id string) error
}

// RatingRepository defines the interface for rating persistence operations.
type RatingRepository interface {
	// Create inserts a rating. A second rating by the same user for the
	// same movie yields domain.ErrDuplicateRating.
	Create(ctx context.Context, rating *domain.Rating) error
	GetByID(ctx context.Context, id string) (*domain.Rating, error)
	ListByMovie(ctx context.Context, movieID string, params pagination.Params) ([]domain.Rating, int, error)
	ExistsForUser(ctx context.Context, userID, movieID string) (bool, error)
	Update(ctx context.Context, rating *domain.Rating) error
	Delete(ctx context.Context, id string) error
}

// ReportFilter narrows ReportRepository.List.
type ReportFilter struct {
	Status *domain.ReportStatus
}

// ReportRepository defines the interface for report persistence operations.
type ReportRepository interface {
	// Create inserts a pending report. A second report by the same user for
	// the same movie yields domain.ErrDuplicateReport.
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	ListByMovieForUser(ctx context.Context, movieID, userID string, params pagination.Params) ([]domain.Report, int, error)
	List(ctx context.Context, filter ReportFilter, params pagination.Params) ([]domain.Report, int, error)
	ExistsForUser(ctx context.Context, userID, movieID string) (bool, error)
	// UpdateReason changes the reason of an existing report.
	UpdateReason(ctx context.Context, report *domain.Report) error
	Delete(ctx context.Context, id string) error

	// Approve marks a report approved and clears its rejected flag. It
	// fails with domain.ErrAlreadyApproved when the report is already
	// approved, including under a concurrent approve.
	Approve(ctx context.Context, id string) (*domain.Report, error)

	// Reject is the mirror of Approve.
	Reject(ctx context.Context, id string) (*domain.Report, error)

	// StatusCounts counts approved and rejected reports over the whole table.
	StatusCounts(ctx context.Context) (*domain.StatusCounts, error)
}

// LoginAttemptStore counts failed logins per identifier within a window.
type LoginAttemptStore interface {
	// Failures returns the current failure count for identifier.
	Failures(ctx context.Context, identifier string) (int, error)

	// RecordFailure increments the count, starting the window on the first
	// failure, and returns the new count.
	RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error)

	// Reset clears the count after a successful login.
	Reset(ctx context.Context, identifier string) error
}
