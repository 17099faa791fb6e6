package model

import "time"

// User is the authenticated caller as carried by the bearer token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type UsageStats struct {
	TotalGenerations int64 `json:"total_generations"`
	TotalFeedback    int64 `json:"total_feedback"`
}

type UserProfile struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Name             string         `json:"name"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty"`
	StylePreferences map[string]any `json:"style_preferences"`
	UsageStats       UsageStats     `json:"usage_stats"`
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	Name             *string
	StylePreferences map[string]any
}
