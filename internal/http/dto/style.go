package dto

import "github.com/BitmanAlan/xiaohongshu/internal/model"

type AnalyzeStyleRequest struct {
	TrainingText string `json:"training_text" binding:"max=20000"`
	AccountTag   string `json:"account_tag" binding:"max=64"`
}

type AnalyzeStyleResponse struct {
	Analysis model.StyleAnalysis `json:"analysis"`
}

type StyleProfileResponse struct {
	TrainingSessions []model.TrainingSession `json:"training_sessions"`
	TotalSessions    int                     `json:"total_sessions"`
}
