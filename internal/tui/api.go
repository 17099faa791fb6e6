package tui

import (
	"context"

	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

// API is the subset of the HTTP client the UI calls. *client.Client
// satisfies it.
type API interface {
	SignIn(ctx context.Context, email, password string) (*dto.SignInResponse, error)
	Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error)
	Save(ctx context.Context, generationID string, contentID int) error
	Feedback(ctx context.Context, req dto.FeedbackRequest) error
	ComplianceReview(ctx context.Context, req dto.ComplianceReviewRequest) ([]compliance.Report, error)
	Library(ctx context.Context) ([]model.LibraryItem, error)
	Profile(ctx context.Context) (*model.UserProfile, error)
	AnalyzeStyle(ctx context.Context, trainingText, accountTag string) (model.StyleAnalysis, error)
}

// Session is called after an in-app sign-in so the caller can persist the
// token.
type Session func(token string, user *model.User)
