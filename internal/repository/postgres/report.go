package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/repository"
	"github.com/moviecatalog/catalog/pkg/database"
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

const constraintReportsUserMovie = "reports_user_movie_key"

const reportColumns = `id, user_id, movie_id, reason, approved, rejected, created_at, updated_at`

// statusConditions maps a report status to its flag predicate.
var statusConditions = map[domain.ReportStatus]string{
	domain.ReportPending:  "approved = FALSE AND rejected = FALSE",
	domain.ReportApproved: "approved = TRUE",
	domain.ReportRejected: "rejected = TRUE",
}

// ReportRepository implements repository.ReportRepository using PostgreSQL.
type ReportRepository struct {
	pool database.DBTX
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool database.DBTX) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create inserts a new report.
func (r *ReportRepository) Create(ctx context.Context, rp *domain.Report) (err error) {
	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ctx, end := database.TraceQuery(ctx, "ReportRepository.Create", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		rp.ID,
		rp.UserID,
		rp.MovieID,
		rp.Reason,
		rp.Approved,
		rp.Rejected,
		rp.CreatedAt,
		rp.UpdatedAt,
	)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, constraintReportsUserMovie):
			return domain.ErrDuplicateReport
		case database.IsForeignKeyViolation(err):
			return apperrors.NotFound("movie", rp.MovieID)
		}
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

// GetByID retrieves a report by its ID.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (_ *domain.Report, err error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "ReportRepository.GetByID", query)
	defer func() { end(err) }()

	return r.scanOne(ctx, query, id)
}

// ListByMovieForUser returns the reports userID filed against movieID.
func (r *ReportRepository) ListByMovieForUser(ctx context.Context, movieID, userID string, params pagination.Params) (_ []domain.Report, _ int, err error) {
	query := `
		SELECT ` + reportColumns + `, count(*) OVER() AS total_count
		FROM reports
		WHERE movie_id = $1 AND user_id = $2
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`

	ctx, end := database.TraceQuery(ctx, "ReportRepository.ListByMovieForUser", query)
	defer func() { end(err) }()

	return r.scanPage(ctx, query, movieID, userID, params.Limit(), params.Offset())
}

// List returns a page of all reports, optionally narrowed to one status.
func (r *ReportRepository) List(ctx context.Context, filter repository.ReportFilter, params pagination.Params) (_ []domain.Report, _ int, err error) {
	where := ""
	if filter.Status != nil {
		cond, ok := statusConditions[*filter.Status]
		if !ok {
			return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown report status %q", *filter.Status))
		}
		where = "WHERE " + cond
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM reports
		%s
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`, reportColumns, where)

	ctx, end := database.TraceQuery(ctx, "ReportRepository.List", query)
	defer func() { end(err) }()

	return r.scanPage(ctx, query, params.Limit(), params.Offset())
}

// ExistsForUser reports whether userID has already reported movieID, in any
// moderation state.
func (r *ReportRepository) ExistsForUser(ctx context.Context, userID, movieID string) (_ bool, err error) {
	query := `SELECT EXISTS(SELECT 1 FROM reports WHERE user_id = $1 AND movie_id = $2)`

	ctx, end := database.TraceQuery(ctx, "ReportRepository.ExistsForUser", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.pool.QueryRow(ctx, query, userID, movieID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check report exists: %w", err)
	}

	return exists, nil
}

// UpdateReason changes the reason and refreshes updated_at.
func (r *ReportRepository) UpdateReason(ctx context.Context, rp *domain.Report) (err error) {
	rp.UpdatedAt = time.Now().UTC()

	query := `UPDATE reports SET reason = $1, updated_at = $2 WHERE id = $3`

	ctx, end := database.TraceQuery(ctx, "ReportRepository.UpdateReason", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, rp.Reason, rp.UpdatedAt, rp.ID)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("report", rp.ID)
	}

	return nil
}

// Delete removes a report by its ID.
func (r *ReportRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM reports WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "ReportRepository.Delete", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("report", id)
	}

	return nil
}

// Approve sets approved and clears rejected in one guarded statement.
func (r *ReportRepository) Approve(ctx context.Context, id string) (_ *domain.Report, err error) {
	query := `
		UPDATE reports
		SET approved = TRUE, rejected = FALSE, updated_at = $2
		WHERE id = $1 AND approved = FALSE
		RETURNING ` + reportColumns

	ctx, end := database.TraceQuery(ctx, "ReportRepository.Approve", query)
	defer func() { end(err) }()

	return r.transition(ctx, query, id, domain.ErrAlreadyApproved)
}

// Reject sets rejected and clears approved in one guarded statement.
func (r *ReportRepository) Reject(ctx context.Context, id string) (_ *domain.Report, err error) {
	query := `
		UPDATE reports
		SET rejected = TRUE, approved = FALSE, updated_at = $2
		WHERE id = $1 AND rejected = FALSE
		RETURNING ` + reportColumns

	ctx, end := database.TraceQuery(ctx, "ReportRepository.Reject", query)
	defer func() { end(err) }()

	return r.transition(ctx, query, id, domain.ErrAlreadyRejected)
}

// transition runs a guarded UPDATE. When no row matches, the report either
// does not exist or is already in the target state.
func (r *ReportRepository) transition(ctx context.Context, query, id string, already error) (*domain.Report, error) {
	rp, err := scanReport(r.pool.QueryRow(ctx, query, id, time.Now().UTC()))
	if err == nil {
		return rp, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update report status: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reports WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check report exists: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("report", id)
	}
	return nil, already
}

// StatusCounts counts approved and rejected reports in a single scan.
func (r *ReportRepository) StatusCounts(ctx context.Context) (_ *domain.StatusCounts, err error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE approved), COUNT(*) FILTER (WHERE rejected)
		FROM reports`

	ctx, end := database.TraceQuery(ctx, "ReportRepository.StatusCounts", query)
	defer func() { end(err) }()

	var counts domain.StatusCounts
	if err = r.pool.QueryRow(ctx, query).Scan(&counts.ApprovedCount, &counts.RejectedCount); err != nil {
		return nil, fmt.Errorf("count report statuses: %w", err)
	}

	return &counts, nil
}

func (r *ReportRepository) scanOne(ctx context.Context, query, id string) (*domain.Report, error) {
	rp, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("report", id)
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rp, nil
}

func (r *ReportRepository) scanPage(ctx context.Context, query string, args ...any) ([]domain.Report, int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var (
		reports    []domain.Report
		totalCount int
	)

	for rows.Next() {
		var rp domain.Report
		if err := rows.Scan(
			&rp.ID,
			&rp.UserID,
			&rp.MovieID,
			&rp.Reason,
			&rp.Approved,
			&rp.Rejected,
			&rp.CreatedAt,
			&rp.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan report row: %w", err)
		}
		rp.SyncStatus()
		reports = append(reports, rp)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate report rows: %w", err)
	}

	if reports == nil {
		reports = []domain.Report{}
	}

	return reports, totalCount, nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var rp domain.Report
	if err := row.Scan(
		&rp.ID,
		&rp.UserID,
		&rp.MovieID,
		&rp.Reason,
		&rp.Approved,
		&rp.Rejected,
		&rp.CreatedAt,
		&rp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rp.SyncStatus()
	return &rp, nil
}
