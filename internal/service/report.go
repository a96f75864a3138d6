package service

import (
	"context"
	"errors"
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

// ReportEventPublisher publishes report events.
type ReportEventPublisher interface {
	PublishReportSubmitted(ctx context.Context, report *domain.Report) error
	PublishReportModerated(ctx context.Context, report *domain.Report, moderatorID string) error
}

// ReportService implements report submission and moderation.
type ReportService struct {
	reports repository.ReportRepository
	movies  repository.MovieRepository
	events  ReportEventPublisher
	logger  *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(
	reports repository.ReportRepository,
	movies repository.MovieRepository,
	events ReportEventPublisher,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		reports: reports,
		movies:  movies,
		events:  events,
		logger:  logger,
	}
}

var errAdminOnly = apperrors.Forbidden("only administrators may moderate reports")

func requireAdmin(p domain.Principal) error {
	if !p.IsAdmin() {
		return errAdminOnly
	}
	return nil
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", apperrors.InvalidInput("reason is required")
	}
	if utf8.RuneCountInString(reason) > domain.MaxReasonLength {
		return "", apperrors.InvalidInput(fmt.Sprintf("reason must be at most %d characters", domain.MaxReasonLength))
	}
	return reason, nil
}

// Submit files a pending report against a movie. A user may report a movie
// once, whatever the state of their earlier report.
func (s *ReportService) Submit(ctx context.Context, p domain.Principal, movieID, reason string) (_ *domain.Report, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReportService.Submit",
		attribute.String("movie.id", movieID),
		attribute.String("user.id", p.UserID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}

	reason, err = normalizeReason(reason)
	if err != nil {
		return nil, err
	}

	exists, err := s.reports.ExistsForUser(ctx, p.UserID, movieID)
	if err != nil {
		return nil, fmt.Errorf("check existing report: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateReport
	}

	now := time.Now().UTC()
	report := &domain.Report{
		ID:        uuid.New().String(),
		UserID:    p.UserID,
		MovieID:   movieID,
		Reason:    reason,
		CreatedAt: now,
		UpdatedAt: now,
	}
	report.SyncStatus()

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	reportsSubmitted.Inc()

	if err := s.events.PublishReportSubmitted(ctx, report); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish report.submitted event",
			slog.String("report_id", report.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "report submitted",
		slog.String("report_id", report.ID),
		slog.String("movie_id", movieID),
	)

	return report, nil
}

// ListForMovie returns the caller's own reports for a movie. An unknown
// movie yields an empty page.
func (s *ReportService) ListForMovie(ctx context.Context, p domain.Principal, movieID string, params pagination.Params) ([]domain.Report, int, error) {
	reports, total, err := s.reports.ListByMovieForUser(ctx, movieID, p.UserID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return reports, total, nil
}

// Get returns a report visible to its author and to administrators.
func (s *ReportService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(p, report.UserID) {
		return nil, domain.ErrNotOwner
	}
	return report, nil
}

// UpdateReason changes the reason of a report. The moderation state is
// untouched.
func (s *ReportService) UpdateReason(ctx context.Context, p domain.Principal, id, reason string) (_ *domain.Report, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReportService.UpdateReason",
		attribute.String("report.id", id),
	)
	defer func() { tracing.EndSpan(span, err) }()

	report, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	report.Reason, err = normalizeReason(reason)
	if err != nil {
		return nil, err
	}

	if err := s.reports.UpdateReason(ctx, report); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}

	s.logger.InfoContext(ctx, "report updated", slog.String("report_id", id))

	return report, nil
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, p domain.Principal, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReportService.Delete",
		attribute.String("report.id", id),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if _, err := s.Get(ctx, p, id); err != nil {
		return err
	}

	if err := s.reports.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	s.logger.InfoContext(ctx, "report deleted", slog.String("report_id", id))

	return nil
}

// ListAll returns a page of every report, optionally narrowed to one status.
func (s *ReportService) ListAll(ctx context.Context, p domain.Principal, status *domain.ReportStatus, params pagination.Params) ([]domain.Report, int, error) {
	if err := requireAdmin(p); err != nil {
		return nil, 0, err
	}
	reports, total, err := s.reports.List(ctx, repository.ReportFilter{Status: status}, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list all reports: %w", err)
	}
	return reports, total, nil
}

// Approve moves a report to approved. Approving an approved report fails
// with domain.ErrAlreadyApproved and changes nothing.
func (s *ReportService) Approve(ctx context.Context, p domain.Principal, id string) (*domain.Report, error) {
	return s.moderate(ctx, p, id, "approve",
		(*domain.Report).Approve,
		s.reports.Approve,
	)
}

// Reject moves a report to rejected. Rejecting a rejected report fails with
// domain.ErrAlreadyRejected and changes nothing.
func (s *ReportService) Reject(ctx context.Context, p domain.Principal, id string) (*domain.Report, error) {
	return s.moderate(ctx, p, id, "reject",
		(*domain.Report).Reject,
		s.reports.Reject,
	)
}

// moderate checks the transition against the loaded report, then persists
// it with a guarded update that also rejects a concurrent duplicate.
func (s *ReportService) moderate(
	ctx context.Context,
	p domain.Principal,
	id, action string,
	transition func(*domain.Report) error,
	persist func(context.Context, string) (*domain.Report, error),
) (_ *domain.Report, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReportService.Moderate",
		attribute.String("report.id", id),
		attribute.String("moderation.action", action),
		attribute.String("moderator.id", p.UserID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	current, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := transition(current); err != nil {
		reportModerations.WithLabelValues(action, resultConflict).Inc()
		return nil, err
	}

	updated, err := persist(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			reportModerations.WithLabelValues(action, resultConflict).Inc()
		}
		return nil, err
	}
	reportModerations.WithLabelValues(action, resultSuccess).Inc()

	if err := s.events.PublishReportModerated(ctx, updated, p.UserID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish report moderation event",
			slog.String("report_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "report moderated",
		slog.String("report_id", id),
		slog.String("action", action),
		slog.String("status", updated.Status),
	)

	return updated, nil
}

// StatusCounts returns approved and rejected totals, computed per call.
func (s *ReportService) StatusCounts(ctx context.Context, p domain.Principal) (*domain.StatusCounts, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	counts, err := s.reports.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	return counts, nil
}
