package model

import "time"

// VariantCount is the number of variants every completed generation carries.
const VariantCount = 3

type CopyVariant struct {
	ID         int             `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	Tags       []string        `json:"tags"`
	Compliance ComplianceGrade `json:"compliance"`
	Style      WritingStyle    `json:"style"`
}

// Generation is stored once under its ID and never modified.
type Generation struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	ProductName    string         `json:"product_name"`
	SelectedTags   []string       `json:"selected_tags"`
	ContentType    ContentType    `json:"content_type"`
	TargetAudience TargetAudience `json:"target_audience"`
	WritingStyle   WritingStyle   `json:"writing_style"`
	Variants       []CopyVariant  `json:"generated_content"`
	FallbackUsed   bool           `json:"fallback_used"`
	AIProvider     string         `json:"ai_provider,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
