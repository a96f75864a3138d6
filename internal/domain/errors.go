package domain

import (
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
)

// Domain rule violations. Each maps to a 400 response with its own code.
var (
	ErrDuplicateRating = apperrors.Conflict("DUPLICATE_RATING", "you have already rated this movie")
	ErrDuplicateReport = apperrors.Conflict("DUPLICATE_REPORT", "you have already reported this movie")
	ErrAlreadyApproved = apperrors.Conflict("ALREADY_APPROVED", "report is already approved")
	ErrAlreadyRejected = apperrors.Conflict("ALREADY_REJECTED", "report is already rejected")
)

// ErrInvalidCredentials is returned for any failed login.
var ErrInvalidCredentials = apperrors.Unauthorized("invalid credentials")

// ErrAccountDisabled is returned when an inactive user logs in.
var ErrAccountDisabled = apperrors.Unauthorized("user account is disabled")

// ErrNotOwner is returned when the caller may not modify a record.
var ErrNotOwner = apperrors.Forbidden("you do not have permission to perform this action")
