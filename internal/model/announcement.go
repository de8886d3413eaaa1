package model

import "time"

// Announcement is a post on a class stream.
type Announcement struct {
	ID        int64     `json:"id" validate:"required"`
	ClassID   int64     `json:"classId"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message" validate:"required"`
	CreatedBy int64     `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}
