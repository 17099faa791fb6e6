package model

import "time"

type SavedItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	GenerationID string    `json:"generation_id"`
	ContentID    int       `json:"content_id"`
	SavedAt      time.Time `json:"saved_at"`
}

// LibraryItem is the list view of one generation.
type LibraryItem struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Style      WritingStyle    `json:"style"`
	Type       ContentType     `json:"type"`
	Date       string          `json:"date"`
	Compliance ComplianceGrade `json:"compliance"`
	Published  bool            `json:"published"`
	Saved      bool            `json:"saved"`
	Preview    string          `json:"preview"`
}
