package dto

import "github.com/BitmanAlan/xiaohongshu/internal/model"

// GenerateRequest keeps the camelCase field names of the web client.
type GenerateRequest struct {
	ProductName    string               `json:"productName" binding:"max=100"`
	SelectedTags   []string             `json:"selectedTags" binding:"max=20,dive,max=32"`
	ContentType    model.ContentType    `json:"contentType"`
	TargetAudience model.TargetAudience `json:"targetAudience"`
	WritingStyle   model.WritingStyle   `json:"writingStyle"`
}

type GenerateResponse struct {
	GenerationID string              `json:"generation_id"`
	Content      []model.CopyVariant `json:"content"`
	Notice       string              `json:"notice,omitempty"`
}
