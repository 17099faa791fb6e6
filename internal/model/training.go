package model

import "time"

// StyleAnalysis is kept as free-form JSON: model output is stored verbatim
// when it parses, and only the fallback shapes have fixed keys.
type StyleAnalysis map[string]any

type TrainingSession struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	TrainingText   string        `json:"training_text"`
	AccountTag     string        `json:"account_tag"`
	AnalysisResult StyleAnalysis `json:"analysis_result"`
	CreatedAt      time.Time     `json:"created_at"`
}
