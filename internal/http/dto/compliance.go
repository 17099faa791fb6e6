package dto

import "github.com/BitmanAlan/xiaohongshu/internal/compliance"

type ComplianceReviewRequest struct {
	GenerationID string `json:"generation_id"`
	Content      string `json:"content" binding:"max=20000"`
}

type ComplianceReviewResponse struct {
	Results []compliance.Report `json:"results"`
}
