package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/repository"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// --- Mock Login Attempt Store ---

type mockLoginAttemptStore struct {
	mock.Mock
}

func (m *mockLoginAttemptStore) Failures(ctx context.Context, identifier string) (int, error) {
	args := m.Called(ctx, identifier)
	return args.Int(0), args.Error(1)
}

func (m *mockLoginAttemptStore) RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error) {
	args := m.Called(ctx, identifier, window)
	return args.Int(0), args.Error(1)
}

func (m *mockLoginAttemptStore) Reset(ctx context.Context, identifier string) error {
	return m.Called(ctx, identifier).Error(0)
}

// --- Mock Movie Repository ---

type mockMovieRepository struct {
	mock.Mock
}

func (m *mockMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *mockMovieRepository) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movie), args.Error(1)
}

func (m *mockMovieRepository) List(ctx context.Context, params pagination.Params) ([]domain.Movie, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Movie), args.Int(1), args.Error(2)
}

func (m *mockMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *mockMovieRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Mock Rating Repository ---

type mockRatingRepository struct {
	mock.Mock
}

func (m *mockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *mockRatingRepository) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rating), args.Error(1)
}

func (m *mockRatingRepository) ListByMovie(ctx context.Context, movieID string, params pagination.Params) ([]domain.Rating, int, error) {
	args := m.Called(ctx, movieID, params)
	return args.Get(0).([]domain.Rating), args.Int(1), args.Error(2)
}

func (m *mockRatingRepository) ExistsForUser(ctx context.Context, userID, movieID string) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRatingRepository) Update(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *mockRatingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Mock Report Repository ---

type mockReportRepository struct {
	mock.Mock
}

func (m *mockReportRepository) Create(ctx context.Context, report *domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockReportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportRepository) ListByMovieForUser(ctx context.Context, movieID, userID string, params pagination.Params) ([]domain.Report, int, error) {
	args := m.Called(ctx, movieID, userID, params)
	return args.Get(0).([]domain.Report), args.Int(1), args.Error(2)
}

func (m *mockReportRepository) List(ctx context.Context, filter repository.ReportFilter, params pagination.Params) ([]domain.Report, int, error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).([]domain.Report), args.Int(1), args.Error(2)
}

func (m *mockReportRepository) ExistsForUser(ctx context.Context, userID, movieID string) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReportRepository) UpdateReason(ctx context.Context, report *domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockReportRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReportRepository) Approve(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportRepository) Reject(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportRepository) StatusCounts(ctx context.Context) (*domain.StatusCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusCounts), args.Error(1)
}

// --- Mock Event Publisher ---

// mockEvents satisfies every *EventPublisher interface of this package.
type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockEvents) PublishMovieCreated(ctx context.Context, movie *domain.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *mockEvents) PublishMovieUpdated(ctx context.Context, movie *domain.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *mockEvents) PublishMovieDeleted(ctx context.Context, movieID, deletedBy string) error {
	return m.Called(ctx, movieID, deletedBy).Error(0)
}

func (m *mockEvents) PublishRatingCreated(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *mockEvents) PublishRatingUpdated(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *mockEvents) PublishRatingDeleted(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *mockEvents) PublishReportSubmitted(ctx context.Context, report *domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockEvents) PublishReportModerated(ctx context.Context, report *domain.Report, moderatorID string) error {
	return m.Called(ctx, report, moderatorID).Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	alice = domain.Principal{UserID: "u-alice", Username: "alice", Role: domain.RoleUser}
	bob   = domain.Principal{UserID: "u-bob", Username: "bob", Role: domain.RoleUser}
	admin = domain.Principal{UserID: "u-admin", Username: "admin", Role: domain.RoleAdmin}
)
