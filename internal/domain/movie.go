package domain

import (
	"time"
)

// Movie is a catalog entry. AverageRating and TotalRatings are derived from
// the movie's ratings at read time.
type Movie struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ReleasedAt      Date      `json:"released_at"`
	DurationHours   int       `json:"duration_hours"`
	DurationMinutes int       `json:"duration_minutes"`
	DurationSeconds int       `json:"duration_seconds"`
	Genre           string    `json:"genre"`
	Language        string    `json:"language"`
	CreatedBy       string    `json:"created_by"`
	AverageRating   float64   `json:"average_rating"`
	TotalRatings    int       `json:"total_ratings"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Duration returns the running time.
func (m *Movie) Duration() time.Duration {
	return time.Duration(m.DurationHours)*time.Hour +
		time.Duration(m.DurationMinutes)*time.Minute +
		time.Duration(m.DurationSeconds)*time.Second
}
