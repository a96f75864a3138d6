package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/repository"
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
	"github.com/moviecatalog/catalog/pkg/pagination"
)

func newReportService() (*ReportService, *mockReportRepository, *mockMovieRepository, *mockEvents) {
	reports := new(mockReportRepository)
	movies := new(mockMovieRepository)
	events := new(mockEvents)
	return NewReportService(reports, movies, events, newTestLogger()), reports, movies, events
}

func pendingReport() *domain.Report {
	r := &domain.Report{ID: "rp-1", UserID: bob.UserID, MovieID: "m-1", Reason: "spam"}
	r.SyncStatus()
	return r
}

func TestReportService_Submit(t *testing.T) {
	svc, reports, movies, events := newReportService()
	before := testutil.ToFloat64(reportsSubmitted)

	movies.On("GetByID", mock.Anything, "m-1").Return(inceptionMovie(alice.UserID), nil)
	reports.On("ExistsForUser", mock.Anything, bob.UserID, "m-1").Return(false, nil)
	reports.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Report) bool {
		return r.Reason == "spam" && !r.Approved && !r.Rejected
	})).Return(nil)
	events.On("PublishReportSubmitted", mock.Anything, mock.Anything).Return(nil)

	report, err := svc.Submit(context.Background(), bob, "m-1", "  spam ")
	require.NoError(t, err)
	assert.Equal(t, "pending", report.Status)
	assert.Equal(t, "spam", report.Reason)
	assert.Equal(t, before+1, testutil.ToFloat64(reportsSubmitted))
}

func TestReportService_Submit_Validation(t *testing.T) {
	for _, reason := range []string{"", "   ", strings.Repeat("x", domain.MaxReasonLength+1)} {
		svc, reports, movies, _ := newReportService()
		movies.On("GetByID", mock.Anything, "m-1").Return(inceptionMovie(alice.UserID), nil)

		_, err := svc.Submit(context.Background(), bob, "m-1", reason)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		reports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestReportService_Submit_DuplicateInAnyState(t *testing.T) {
	svc, reports, movies, _ := newReportService()
	movies.On("GetByID", mock.Anything, "m-1").Return(inceptionMovie(alice.UserID), nil)
	reports.On("ExistsForUser", mock.Anything, bob.UserID, "m-1").Return(true, nil)

	_, err := svc.Submit(context.Background(), bob, "m-1", "spam")
	assert.ErrorIs(t, err, domain.ErrDuplicateReport)
}

func TestReportService_Submit_UnknownMovie(t *testing.T) {
	svc, _, movies, _ := newReportService()
	movies.On("GetByID", mock.Anything, "nope").Return(nil, apperrors.NotFound("movie", "nope"))

	_, err := svc.Submit(context.Background(), bob, "nope", "spam")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestReportService_ListForMovie_ScopedToCaller(t *testing.T) {
	svc, reports, _, _ := newReportService()
	params := pagination.DefaultParams()
	reports.On("ListByMovieForUser", mock.Anything, "m-1", bob.UserID, params).Return([]domain.Report{*pendingReport()}, 1, nil)

	list, total, err := svc.ListForMovie(context.Background(), bob, "m-1", params)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, bob.UserID, list[0].UserID)
	reports.AssertExpectations(t)
}

func TestReportService_Get_OwnerOrAdmin(t *testing.T) {
	svc, reports, _, _ := newReportService()
	reports.On("GetByID", mock.Anything, "rp-1").Return(pendingReport(), nil)

	_, err := svc.Get(context.Background(), bob, "rp-1")
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), admin, "rp-1")
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), alice, "rp-1")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestReportService_UpdateReason(t *testing.T) {
	svc, reports, _, _ := newReportService()
	existing := pendingReport()
	reports.On("GetByID", mock.Anything, "rp-1").Return(existing, nil)
	reports.On("UpdateReason", mock.Anything, existing).Return(nil)

	got, err := svc.UpdateReason(context.Background(), bob, "rp-1", "offensive content")
	require.NoError(t, err)
	assert.Equal(t, "offensive content", got.Reason)
	assert.Equal(t, "pending", got.Status)
}

func TestReportService_Delete(t *testing.T) {
	svc, reports, _, _ := newReportService()
	reports.On("GetByID", mock.Anything, "rp-1").Return(pendingReport(), nil)
	reports.On("Delete", mock.Anything, "rp-1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), bob, "rp-1"))

	err := svc.Delete(context.Background(), alice, "rp-1")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	reports.AssertNumberOfCalls(t, "Delete", 1)
}

func TestReportService_AdminOnly(t *testing.T) {
	svc, reports, _, _ := newReportService()
	ctx := context.Background()

	_, err := svc.Approve(ctx, bob, "rp-1")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	_, err = svc.Reject(ctx, bob, "rp-1")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	_, err = svc.StatusCounts(ctx, bob)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	_, _, err = svc.ListAll(ctx, bob, nil, pagination.DefaultParams())
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	reports.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestReportService_ListAll_WithStatus(t *testing.T) {
	svc, reports, _, _ := newReportService()
	status := domain.ReportApproved
	params := pagination.DefaultParams()
	reports.On("List", mock.Anything, repository.ReportFilter{Status: &status}, params).Return([]domain.Report{}, 0, nil)

	list, total, err := svc.ListAll(context.Background(), admin, &status, params)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

func TestReportService_Approve(t *testing.T) {
	svc, reports, _, events := newReportService()
	approved := pendingReport()
	approved.Approved = true
	approved.SyncStatus()
	before := testutil.ToFloat64(reportModerations.WithLabelValues("approve", resultSuccess))

	reports.On("GetByID", mock.Anything, "rp-1").Return(pendingReport(), nil)
	reports.On("Approve", mock.Anything, "rp-1").Return(approved, nil)
	events.On("PublishReportModerated", mock.Anything, approved, admin.UserID).Return(nil)

	got, err := svc.Approve(context.Background(), admin, "rp-1")
	require.NoError(t, err)
	assert.True(t, got.Approved)
	assert.False(t, got.Rejected)
	assert.Equal(t, before+1, testutil.ToFloat64(reportModerations.WithLabelValues("approve", resultSuccess)))
	events.AssertExpectations(t)
}

func TestReportService_Approve_AlreadyApproved(t *testing.T) {
	svc, reports, _, _ := newReportService()
	current := pendingReport()
	current.Approved = true

	reports.On("GetByID", mock.Anything, "rp-1").Return(current, nil)

	_, err := svc.Approve(context.Background(), admin, "rp-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyApproved)
	reports.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
}

func TestReportService_Approve_LosesRace(t *testing.T) {
	svc, reports, _, events := newReportService()

	reports.On("GetByID", mock.Anything, "rp-1").Return(pendingReport(), nil)
	reports.On("Approve", mock.Anything, "rp-1").Return(nil, domain.ErrAlreadyApproved)

	_, err := svc.Approve(context.Background(), admin, "rp-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyApproved)
	events.AssertNotCalled(t, "PublishReportModerated", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_Reject_FlipsApproved(t *testing.T) {
	svc, reports, _, events := newReportService()
	current := pendingReport()
	current.Approved = true
	rejected := pendingReport()
	rejected.Rejected = true
	rejected.SyncStatus()

	reports.On("GetByID", mock.Anything, "rp-1").Return(current, nil)
	reports.On("Reject", mock.Anything, "rp-1").Return(rejected, nil)
	events.On("PublishReportModerated", mock.Anything, rejected, admin.UserID).Return(nil)

	got, err := svc.Reject(context.Background(), admin, "rp-1")
	require.NoError(t, err)
	assert.Equal(t, "rejected", got.Status)
	assert.False(t, got.Approved)
}

func TestReportService_Reject_AlreadyRejected(t *testing.T) {
	svc, reports, _, _ := newReportService()
	current := pendingReport()
	current.Rejected = true
	reports.On("GetByID", mock.Anything, "rp-1").Return(current, nil)

	_, err := svc.Reject(context.Background(), admin, "rp-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyRejected)
}

func TestReportService_Approve_NotFound(t *testing.T) {
	svc, reports, _, _ := newReportService()
	reports.On("GetByID", mock.Anything, "rp-x").Return(nil, apperrors.NotFound("report", "rp-x"))

	_, err := svc.Approve(context.Background(), admin, "rp-x")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestReportService_StatusCounts(t *testing.T) {
	svc, reports, _, _ := newReportService()
	reports.On("StatusCounts", mock.Anything).Return(&domain.StatusCounts{ApprovedCount: 1}, nil)

	counts, err := svc.StatusCounts(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.ApprovedCount)
	assert.Zero(t, counts.RejectedCount)
}
