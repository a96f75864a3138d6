package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/repository"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

// --- Mock User Repository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// --- Mock Movie Repository ---

type mockMovieRepo struct {
	mock.Mock
}

func (m *mockMovieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *mockMovieRepo) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movie), args.Error(1)
}

func (m *mockMovieRepo) List(ctx context.Context, params pagination.Params) ([]domain.Movie, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Movie), args.Int(1), args.Error(2)
}

func (m *mockMovieRepo) Update(ctx context.Context, movie *domain.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *mockMovieRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Mock Rating Repository ---

type mockRatingRepo struct {
	mock.Mock
}

func (m *mockRatingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *mockRatingRepo) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rating), args.Error(1)
}

func (m *mockRatingRepo) ListByMovie(ctx context.Context, movieID string, params pagination.Params) ([]domain.Rating, int, error) {
	args := m.Called(ctx, movieID, params)
	return args.Get(0).([]domain.Rating), args.Int(1), args.Error(2)
}

func (m *mockRatingRepo) ExistsForUser(ctx context.Context, userID, movieID string) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRatingRepo) Update(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *mockRatingRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Mock Report Repository ---

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) Create(ctx context.Context, report *domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportRepo) ListByMovieForUser(ctx context.Context, movieID, userID string, params pagination.Params) ([]domain.Report, int, error) {
	args := m.Called(ctx, movieID, userID, params)
	return args.Get(0).([]domain.Report), args.Int(1), args.Error(2)
}

func (m *mockReportRepo) List(ctx context.Context, filter repository.ReportFilter, params pagination.Params) ([]domain.Report, int, error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).([]domain.Report), args.Int(1), args.Error(2)
}

func (m *mockReportRepo) ExistsForUser(ctx context.Context, userID, movieID string) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReportRepo) UpdateReason(ctx context.Context, report *domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockReportRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReportRepo) Approve(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportRepo) Reject(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportRepo) StatusCounts(ctx context.Context) (*domain.StatusCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusCounts), args.Error(1)
}

// --- No-op Event Publisher ---

type nopEvents struct{}

func (nopEvents) PublishUserRegistered(context.Context, *domain.User) error { return nil }
func (nopEvents) PublishMovieCreated(context.Context, *domain.Movie) error { return nil }
func (nopEvents) PublishMovieUpdated(context.Context, *domain.Movie) error { return nil }
func (nopEvents) PublishMovieDeleted(context.Context, string, string) error { return nil }
func (nopEvents) PublishRatingCreated(context.Context, *domain.Rating) error { return nil }
func (nopEvents) PublishRatingUpdated(context.Context, *domain.Rating) error { return nil }
func (nopEvents) PublishRatingDeleted(context.Context, *domain.Rating) error { return nil }
func (nopEvents) PublishReportSubmitted(context.Context, *domain.Report) error { return nil }
func (nopEvents) PublishReportModerated(context.Context, *domain.Report, string) error {
	return nil
}
