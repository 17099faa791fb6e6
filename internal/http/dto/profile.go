package dto

import "github.com/BitmanAlan/xiaohongshu/internal/model"

// UpdateProfileRequest is decoded strictly; unknown fields are rejected.
type UpdateProfileRequest struct {
	Name             *string        `json:"name"`
	StylePreferences map[string]any `json:"style_preferences"`
}

func (r UpdateProfileRequest) ToModel() model.ProfileUpdate {
	return model.ProfileUpdate{Name: r.Name, StylePreferences: r.StylePreferences}
}

type ProfileResponse struct {
	Profile *model.UserProfile `json:"profile"`
}
