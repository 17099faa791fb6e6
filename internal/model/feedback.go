package model

import "time"

type Feedback struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	GenerationID string       `json:"generation_id"`
	Satisfaction Satisfaction `json:"satisfaction"`
	Tags         []string     `json:"tags"`
	Comment      string       `json:"comment"`
	CreatedAt    time.Time    `json:"created_at"`
}
