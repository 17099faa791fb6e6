package dto

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	AIService string          `json:"ai_service"`
	Version   string          `json:"version"`
	EnvCheck  map[string]bool `json:"env_check"`
	Store     string          `json:"store"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
