package domain

import (
	"time"
)

// Bounds of a rating value, inclusive.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Rating is one user's score for one movie.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidRating reports whether v lies within [MinRating, MaxRating].
func ValidRating(v float64) bool {
	return v >= MinRating && v <= MaxRating
}
