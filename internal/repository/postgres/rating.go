package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/pkg/database"
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

const constraintRatingsUserMovie = "ratings_user_movie_key"

// RatingRepository implements repository.RatingRepository using PostgreSQL.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Create inserts a new rating. The unique constraint on (user_id, movie_id)
// is the final word on duplicates.
func (r *RatingRepository) Create(ctx context.Context, rt *domain.Rating) (err error) {
	query := `
		INSERT INTO ratings (id, user_id, movie_id, rating, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	ctx, end := database.TraceQuery(ctx, "RatingRepository.Create", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query, rt.ID, rt.UserID, rt.MovieID, rt.Rating, rt.CreatedAt)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, constraintRatingsUserMovie):
			return domain.ErrDuplicateRating
		case database.IsForeignKeyViolation(err):
			return apperrors.NotFound("movie", rt.MovieID)
		}
		return fmt.Errorf("insert rating: %w", err)
	}

	return nil
}

// GetByID retrieves a rating by its ID.
func (r *RatingRepository) GetByID(ctx context.Context, id string) (_ *domain.Rating, err error) {
	query := `SELECT id, user_id, movie_id, rating, created_at FROM ratings WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "RatingRepository.GetByID", query)
	defer func() { end(err) }()

	var rt domain.Rating
	err = r.pool.QueryRow(ctx, query, id).Scan(&rt.ID, &rt.UserID, &rt.MovieID, &rt.Rating, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("rating", id)
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}

	return &rt, nil
}

// ListByMovie returns a page of a movie's ratings along with the total count.
func (r *RatingRepository) ListByMovie(ctx context.Context, movieID string, params pagination.Params) (_ []domain.Rating, _ int, err error) {
	query := `
		SELECT id, user_id, movie_id, rating, created_at,
		       count(*) OVER() AS total_count
		FROM ratings
		WHERE movie_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	ctx, end := database.TraceQuery(ctx, "RatingRepository.ListByMovie", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, movieID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var (
		ratings    []domain.Rating
		totalCount int
	)

	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.MovieID, &rt.Rating, &rt.CreatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rating rows: %w", err)
	}

	if ratings == nil {
		ratings = []domain.Rating{}
	}

	return ratings, totalCount, nil
}

// ExistsForUser reports whether userID has already rated movieID.
func (r *RatingRepository) ExistsForUser(ctx context.Context, userID, movieID string) (_ bool, err error) {
	query := `SELECT EXISTS(SELECT 1 FROM ratings WHERE user_id = $1 AND movie_id = $2)`

	ctx, end := database.TraceQuery(ctx, "RatingRepository.ExistsForUser", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.pool.QueryRow(ctx, query, userID, movieID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check rating exists: %w", err)
	}

	return exists, nil
}

// Update changes the rating value.
func (r *RatingRepository) Update(ctx context.Context, rt *domain.Rating) (err error) {
	query := `UPDATE ratings SET rating = $1 WHERE id = $2`

	ctx, end := database.TraceQuery(ctx, "RatingRepository.Update", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, rt.Rating, rt.ID)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("rating", rt.ID)
	}

	return nil
}

// Delete removes a rating by its ID.
func (r *RatingRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM ratings WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "RatingRepository.Delete", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("rating", id)
	}

	return nil
}
