package client

import (
	"context"
	"net/http"

	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

func (c *Client) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.UserResponse, error) {
	var resp dto.SignUpResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// SignIn returns the session; callers switch to it with WithToken.
func (c *Client) SignIn(ctx context.Context, email, password string) (*dto.SignInResponse, error) {
	var resp dto.SignInResponse
	err := c.do(ctx, http.MethodPost, "/auth/signin", dto.SignInRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if req.SelectedTags == nil {
		req.SelectedTags = []string{}
	}
	var resp dto.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Library(ctx context.Context) ([]model.LibraryItem, error) {
	var resp dto.LibraryResponse
	if err := c.do(ctx, http.MethodGet, "/library", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Library, nil
}

func (c *Client) Save(ctx context.Context, generationID string, contentID int) error {
	return c.do(ctx, http.MethodPost, "/library/save",
		dto.SaveRequest{GenerationID: generationID, ContentID: contentID}, nil)
}

func (c *Client) Feedback(ctx context.Context, req dto.FeedbackRequest) error {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	return c.do(ctx, http.MethodPost, "/feedback", req, nil)
}

func (c *Client) AnalyzeStyle(ctx context.Context, trainingText, accountTag string) (model.StyleAnalysis, error) {
	var resp dto.AnalyzeStyleResponse
	err := c.do(ctx, http.MethodPost, "/style/analyze",
		dto.AnalyzeStyleRequest{TrainingText: trainingText, AccountTag: accountTag}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Analysis, nil
}

func (c *Client) StyleProfile(ctx context.Context) (*dto.StyleProfileResponse, error) {
	var resp dto.StyleProfileResponse
	if err := c.do(ctx, http.MethodGet, "/style/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Profile(ctx context.Context) (*model.UserProfile, error) {
	var resp dto.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*model.UserProfile, error) {
	var resp dto.ProfileResponse
	if err := c.do(ctx, http.MethodPut, "/profile", req, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (c *Client) ComplianceReview(ctx context.Context, req dto.ComplianceReviewRequest) ([]compliance.Report, error) {
	var resp dto.ComplianceReviewResponse
	if err := c.do(ctx, http.MethodPost, "/compliance/review", req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Health reports the server status; a degraded server answers 503 with the
// same body, which is returned alongside the error.
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var resp dto.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		if resp.Status == "" {
			return nil, err
		}
		return &resp, err
	}
	return &resp, nil
}
