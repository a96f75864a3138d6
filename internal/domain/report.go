package domain

import (
	"time"
)

// ReportStatus is derived from the approved and rejected flags.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportApproved ReportStatus = "approved"
	ReportRejected ReportStatus = "rejected"
)

// IsValidReportStatus checks whether s names a report status.
func IsValidReportStatus(s string) bool {
	switch ReportStatus(s) {
	case ReportPending, ReportApproved, ReportRejected:
		return true
	}
	return false
}

// MaxReasonLength bounds Report.Reason.
const MaxReasonLength = 256

// Report is a user's complaint about a movie, resolved by an administrator.
// Approved and Rejected are never both true.
type Report struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	Reason    string    `json:"reason"`
	Approved  bool      `json:"approved"`
	Rejected  bool      `json:"rejected"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurrentStatus derives the moderation state from the flags.
func (r *Report) CurrentStatus() ReportStatus {
	switch {
	case r.Approved:
		return ReportApproved
	case r.Rejected:
		return ReportRejected
	default:
		return ReportPending
	}
}

// SyncStatus refreshes the serialized Status field.
func (r *Report) SyncStatus() {
	r.Status = string(r.CurrentStatus())
}

// Approve moves the report to approved. A rejected report may be approved;
// approving twice fails with ErrAlreadyApproved.
func (r *Report) Approve() error {
	if r.Approved {
		return ErrAlreadyApproved
	}
	r.Approved = true
	r.Rejected = false
	r.SyncStatus()
	return nil
}

// Reject moves the report to rejected. An approved report may be rejected;
// rejecting twice fails with ErrAlreadyRejected.
func (r *Report) Reject() error {
	if r.Rejected {
		return ErrAlreadyRejected
	}
	r.Rejected = true
	r.Approved = false
	r.SyncStatus()
	return nil
}

// StatusCounts are moderation totals over all reports.
type StatusCounts struct {
	ApprovedCount int `json:"approved_count"`
	RejectedCount int `json:"rejected_count"`
}
