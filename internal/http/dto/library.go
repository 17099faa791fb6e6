package dto

import "github.com/BitmanAlan/xiaohongshu/internal/model"

type LibraryResponse struct {
	Library []model.LibraryItem `json:"library"`
}

type SaveRequest struct {
	GenerationID string `json:"generation_id"`
	ContentID    int    `json:"content_id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
