package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BitmanAlan/xiaohongshu/internal/client"
	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/wizard"
)

type (
	// actionMsg feeds a reducer action back into Update.
	actionMsg struct{ action wizard.Action }

	signedInMsg struct {
		user  *model.User
		token string
	}
	libraryMsg    []model.LibraryItem
	profileMsg    *model.UserProfile
	reportsMsg    []compliance.Report
	analysisMsg   model.StyleAnalysis
	savedMsg      int
	feedbackMsg   struct{}
	requestErrMsg struct{ err error }
)

func (m Model) signIn(email, password string) tea.Cmd {
	api := m.newAPI("")
	ctx := m.ctx
	return func() tea.Msg {
		resp, err := api.SignIn(ctx, email, password)
		if err != nil {
			return actionMsg{wizard.AuthFailed{Message: errorText(err)}}
		}
		return signedInMsg{
			user:  &model.User{ID: resp.User.ID, Email: resp.User.Email, Name: resp.User.Name},
			token: resp.AccessToken,
		}
	}
}

func (m Model) generate() tea.Cmd {
	s := m.state
	api := m.newAPI(s.AccessToken)
	ctx := m.ctx

	tags := make([]string, 0, len(s.SelectedTags))
	for _, t := range s.SelectedTags {
		tags = append(tags, string(t))
	}
	req := dto.GenerateRequest{
		ProductName:    s.ProductName,
		SelectedTags:   tags,
		ContentType:    s.ContentType,
		TargetAudience: s.TargetAudience,
		WritingStyle:   s.WritingStyle,
	}

	return func() tea.Msg {
		resp, err := api.Generate(ctx, req)
		if err != nil {
			return actionMsg{wizard.GenerationFailed{Message: rejection(err), Unauthorized: client.IsAuth(err)}}
		}
		return actionMsg{wizard.GenerationSucceeded{
			ID:       resp.GenerationID,
			Variants: resp.Content,
			Notice:   resp.Notice,
		}}
	}
}

// request runs fn with an authenticated client and maps failures to
// requestErrMsg.
func (m Model) request(fn func(ctx context.Context, api API) (tea.Msg, error)) tea.Cmd {
	api := m.newAPI(m.state.AccessToken)
	ctx := m.ctx
	return func() tea.Msg {
		msg, err := fn(ctx, api)
		if err != nil {
			return requestErrMsg{err}
		}
		return msg
	}
}

func (m Model) loadLibrary() tea.Cmd {
	return m.request(func(ctx context.Context, api API) (tea.Msg, error) {
		items, err := api.Library(ctx)
		return libraryMsg(items), err
	})
}

func (m Model) loadProfile() tea.Cmd {
	return m.request(func(ctx context.Context, api API) (tea.Msg, error) {
		p, err := api.Profile(ctx)
		return profileMsg(p), err
	})
}

func (m Model) review() tea.Cmd {
	id := m.state.CurrentGenerationID
	return m.request(func(ctx context.Context, api API) (tea.Msg, error) {
		reports, err := api.ComplianceReview(ctx, dto.ComplianceReviewRequest{GenerationID: id})
		return reportsMsg(reports), err
	})
}

func (m Model) save(contentID int) tea.Cmd {
	id := m.state.CurrentGenerationID
	return m.request(func(ctx context.Context, api API) (tea.Msg, error) {
		return savedMsg(contentID), api.Save(ctx, id, contentID)
	})
}

func (m Model) sendFeedback(s model.Satisfaction) tea.Cmd {
	id := m.state.CurrentGenerationID
	return m.request(func(ctx context.Context, api API) (tea.Msg, error) {
		err := api.Feedback(ctx, dto.FeedbackRequest{GenerationID: id, Satisfaction: s, Tags: []string{}})
		return feedbackMsg{}, err
	})
}

func (m Model) analyze(text string) tea.Cmd {
	return m.request(func(ctx context.Context, api API) (tea.Msg, error) {
		analysis, err := api.AnalyzeStyle(ctx, text, "")
		return analysisMsg(analysis), err
	})
}

// rejection returns the server's message for a 4xx response, empty otherwise.
func rejection(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Message
	}
	return ""
}

func errorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
