package dto

import "github.com/BitmanAlan/xiaohongshu/internal/model"

type FeedbackRequest struct {
	GenerationID string             `json:"generation_id"`
	Satisfaction model.Satisfaction `json:"satisfaction"`
	Tags         []string           `json:"tags" binding:"max=20,dive,max=32"`
	Comment      string             `json:"comment" binding:"max=2000"`
}
