package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/pkg/database"
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

var movieCols = []string{
	"id", "title", "description", "released_at",
	"duration_hours", "duration_minutes", "duration_seconds",
	"genre", "language", "created_by", "created_at", "updated_at",
	"average_rating", "total_ratings",
}

func sampleMovie() *domain.Movie {
	return &domain.Movie{
		ID:              "m-1",
		Title:           "Inception",
		Description:     "Dreams within dreams",
		ReleasedAt:      domain.NewDate(time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)),
		DurationHours:   2,
		DurationMinutes: 28,
		Genre:           "Sci-Fi",
		Language:        "English",
		CreatedBy:       "u-1",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func movieValues(m *domain.Movie) []any {
	return []any{
		m.ID, m.Title, m.Description, m.ReleasedAt.Time,
		m.DurationHours, m.DurationMinutes, m.DurationSeconds,
		m.Genre, m.Language, m.CreatedBy, m.CreatedAt, m.UpdatedAt,
		m.AverageRating, m.TotalRatings,
	}
}

func TestMovieRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewMovieRepository(mock)
	m := sampleMovie()

	mock.ExpectExec("INSERT INTO movies").
		WithArgs(m.ID, m.Title, m.Description, m.ReleasedAt.Time, 2, 28, 0,
			m.Genre, m.Language, m.CreatedBy, m.CreatedAt, m.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_Create_CheckViolation(t *testing.T) {
	mock := newMock(t)
	repo := NewMovieRepository(mock)

	m := sampleMovie()

	mock.ExpectExec("INSERT INTO movies").
		WithArgs(m.ID, m.Title, m.Description, m.ReleasedAt.Time, 2, 28, 0,
			m.Genre, m.Language, m.CreatedBy, m.CreatedAt, m.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: database.CodeCheckViolation})

	err := repo.Create(context.Background(), m)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_GetByID_WithAggregates(t *testing.T) {
	mock := newMock(t)
	repo := NewMovieRepository(mock)
	m := sampleMovie()
	m.AverageRating = 4.0
	m.TotalRatings = 2

	mock.ExpectQuery(`SELECT .+ COALESCE\(AVG\(r.rating\), 0\) .+ FROM movies m LEFT JOIN ratings r .+ WHERE m.id = \$1 GROUP BY m.id`).
		WithArgs(m.ID).
		WillReturnRows(pgxmock.NewRows(movieCols).AddRow(movieValues(m)...))

	got, err := repo.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inception", got.Title)
	assert.Equal(t, "2010-07-16", got.ReleasedAt.String())
	assert.InDelta(t, 4.0, got.AverageRating, 1e-9)
	assert.Equal(t, 2, got.TotalRatings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewMovieRepository(mock)

	mock.ExpectQuery("FROM movies m").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestMovieRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewMovieRepository(mock)

	rated := sampleMovie()
	rated.AverageRating = 4.5
	rated.TotalRatings = 2
	unrated := sampleMovie()
	unrated.ID = "m-2"
	unrated.Title = "Tenet"

	cols := append(append([]string{}, movieCols...), "total_count")
	rows := pgxmock.NewRows(cols).
		AddRow(append(movieValues(rated), 7)...).
		AddRow(append(movieValues(unrated), 7)...)

	mock.ExpectQuery(`SELECT .+ count\(\*\) OVER\(\) AS total_count .+ LIMIT \$1 OFFSET \$2`).
		WithArgs(5, 5).
		WillReturnRows(rows)

	movies, total, err := repo.List(context.Background(), pagination.New(2, 5))
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, movies, 2)
	assert.InDelta(t, 4.5, movies[0].AverageRating, 1e-9)
	assert.Zero(t, movies[1].AverageRating)
	assert.Zero(t, movies[1].TotalRatings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_List_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewMovieRepository(mock)

	cols := append(append([]string{}, movieCols...), "total_count")
	mock.ExpectQuery("FROM movies m").
		WithArgs(pagination.DefaultPerPage, 0).
		WillReturnRows(pgxmock.NewRows(cols))

	movies, total, err := repo.List(context.Background(), pagination.DefaultParams())
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
	assert.Zero(t, total)
}

func TestMovieRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewMovieRepository(mock)
	m := sampleMovie()
	m.Title = "Inception (Director's Cut)"

	mock.ExpectExec("UPDATE movies SET").
		WithArgs(m.Title, m.Description, m.ReleasedAt.Time, 2, 28, 0, m.Genre, m.Language, pgxmock.AnyArg(), m.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), m))
	assert.True(t, m.UpdatedAt.After(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewMovieRepository(mock)

	m := sampleMovie()

	mock.ExpectExec("UPDATE movies SET").
		WithArgs(m.Title, m.Description, m.ReleasedAt.Time, 2, 28, 0, m.Genre, m.Language, pgxmock.AnyArg(), m.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), m)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewMovieRepository(mock)

	mock.ExpectExec("DELETE FROM movies WHERE id =").
		WithArgs("m-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), "m-1"))

	mock.ExpectExec("DELETE FROM movies WHERE id =").
		WithArgs("m-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	err := repo.Delete(context.Background(), "m-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
