package models

import "time"

// Event represents a scheduled event owned by a user.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Date        time.Time `json:"date"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}
