package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"result"},
	)

	ratingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_ratings_created_total",
			Help: "Ratings created",
		},
	)

	reportsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_reports_submitted_total",
			Help: "Reports submitted for moderation",
		},
	)

	reportModerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_report_moderations_total",
			Help: "Moderation decisions by action and outcome",
		},
		[]string{"action", "result"},
	)
)

const (
	resultSuccess   = "success"
	resultFailure   = "failure"
	resultThrottled = "throttled"
	resultConflict  = "conflict"
)
