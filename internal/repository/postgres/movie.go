package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/pkg/database"
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

// movieSelect joins ratings so every read carries the derived aggregates.
// Callers append a WHERE clause, then GROUP BY m.id.
const movieSelect = `
	SELECT m.id, m.title, m.description, m.released_at,
	       m.duration_hours, m.duration_minutes, m.duration_seconds,
	       m.genre, m.language, m.created_by, m.created_at, m.updated_at,
	       COALESCE(AVG(r.rating), 0) AS average_rating,
	       COUNT(r.id) AS total_ratings`

// MovieRepository implements repository.MovieRepository using PostgreSQL.
type MovieRepository struct {
	pool database.DBTX
}

// NewMovieRepository creates a new PostgreSQL-backed movie repository.
func NewMovieRepository(pool database.DBTX) *MovieRepository {
	return &MovieRepository{pool: pool}
}

// Create inserts a new movie into the database.
func (r *MovieRepository) Create(ctx context.Context, m *domain.Movie) (err error) {
	query := `
		INSERT INTO movies (id, title, description, released_at, duration_hours, duration_minutes,
		                    duration_seconds, genre, language, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	ctx, end := database.TraceQuery(ctx, "MovieRepository.Create", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		m.ID,
		m.Title,
		m.Description,
		m.ReleasedAt.Time,
		m.DurationHours,
		m.DurationMinutes,
		m.DurationSeconds,
		m.Genre,
		m.Language,
		m.CreatedBy,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if database.IsCheckViolation(err) {
			return apperrors.InvalidInput("movie duration is out of range")
		}
		return fmt.Errorf("insert movie: %w", err)
	}

	return nil
}

// GetByID retrieves a movie with its rating aggregates.
func (r *MovieRepository) GetByID(ctx context.Context, id string) (_ *domain.Movie, err error) {
	query := movieSelect + `
		FROM movies m
		LEFT JOIN ratings r ON r.movie_id = m.id
		WHERE m.id = $1
		GROUP BY m.id`

	ctx, end := database.TraceQuery(ctx, "MovieRepository.GetByID", query)
	defer func() { end(err) }()

	var m domain.Movie
	err = r.pool.QueryRow(ctx, query, id).Scan(movieDest(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("movie", id)
		}
		return nil, fmt.Errorf("get movie: %w", err)
	}

	return &m, nil
}

// List returns a page of movies, newest first, along with the total count.
func (r *MovieRepository) List(ctx context.Context, params pagination.Params) (_ []domain.Movie, _ int, err error) {
	query := movieSelect + `,
	       count(*) OVER() AS total_count
		FROM movies m
		LEFT JOIN ratings r ON r.movie_id = m.id
		GROUP BY m.id
		ORDER BY m.created_at DESC, m.id
		LIMIT $1 OFFSET $2`

	ctx, end := database.TraceQuery(ctx, "MovieRepository.List", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var (
		movies     []domain.Movie
		totalCount int
	)

	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(append(movieDest(&m), &totalCount)...); err != nil {
			return nil, 0, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate movie rows: %w", err)
	}

	if movies == nil {
		movies = []domain.Movie{}
	}

	return movies, totalCount, nil
}

// Update writes every editable column and refreshes updated_at.
func (r *MovieRepository) Update(ctx context.Context, m *domain.Movie) (err error) {
	m.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE movies
		SET title = $1, description = $2, released_at = $3, duration_hours = $4,
		    duration_minutes = $5, duration_seconds = $6, genre = $7, language = $8, updated_at = $9
		WHERE id = $10`

	ctx, end := database.TraceQuery(ctx, "MovieRepository.Update", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query,
		m.Title,
		m.Description,
		m.ReleasedAt.Time,
		m.DurationHours,
		m.DurationMinutes,
		m.DurationSeconds,
		m.Genre,
		m.Language,
		m.UpdatedAt,
		m.ID,
	)
	if err != nil {
		if database.IsCheckViolation(err) {
			return apperrors.InvalidInput("movie duration is out of range")
		}
		return fmt.Errorf("update movie: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("movie", m.ID)
	}

	return nil
}

// Delete removes a movie. Its ratings and reports are removed by cascade.
func (r *MovieRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM movies WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "MovieRepository.Delete", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("movie", id)
	}

	return nil
}

func movieDest(m *domain.Movie) []any {
	return []any{
		&m.ID,
		&m.Title,
		&m.Description,
		&m.ReleasedAt.Time,
		&m.DurationHours,
		&m.DurationMinutes,
		&m.DurationSeconds,
		&m.Genre,
		&m.Language,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.AverageRating,
		&m.TotalRatings,
	}
}
