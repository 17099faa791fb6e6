package handler_test

import (
	"context"

	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type mockAuthService struct {
	signUpFn       func(ctx context.Context, email, password, name string) (*model.User, error)
	signInFn       func(ctx context.Context, email, password string) (*service.Session, error)
	authenticateFn func(ctx context.Context, token string) (*model.User, error)
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password, name string) (*model.User, error) {
	if m.signUpFn != nil {
		return m.signUpFn(ctx, email, password, name)
	}
	return &model.User{ID: "user_1", Email: email, Name: name}, nil
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*service.Session, error) {
	if m.signInFn != nil {
		return m.signInFn(ctx, email, password)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *mockAuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, token)
	}
	return nil, service.ErrUnauthenticated
}

type mockGenerationService struct {
	generateFn func(ctx context.Context, user *model.User, in service.GenerateInput) (*service.GenerateResult, error)
}

func (m *mockGenerationService) Generate(ctx context.Context, user *model.User, in service.GenerateInput) (*service.GenerateResult, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, user, in)
	}
	return nil, nil
}

type mockLibraryService struct {
	listFn func(ctx context.Context, user *model.User) ([]model.LibraryItem, error)
	saveFn func(ctx context.Context, user *model.User, generationID string, contentID int) (*model.SavedItem, error)
}

func (m *mockLibraryService) List(ctx context.Context, user *model.User) ([]model.LibraryItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, user)
	}
	return []model.LibraryItem{}, nil
}

func (m *mockLibraryService) Save(ctx context.Context, user *model.User, generationID string, contentID int) (*model.SavedItem, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, user, generationID, contentID)
	}
	return &model.SavedItem{}, nil
}

type mockProfileService struct {
	getFn    func(ctx context.Context, user *model.User) (*model.UserProfile, error)
	updateFn func(ctx context.Context, user *model.User, upd model.ProfileUpdate) (*model.UserProfile, error)
}

func (m *mockProfileService) Get(ctx context.Context, user *model.User) (*model.UserProfile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, user)
	}
	return nil, service.ErrNotFound
}

func (m *mockProfileService) Update(ctx context.Context, user *model.User, upd model.ProfileUpdate) (*model.UserProfile, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, user, upd)
	}
	return nil, service.ErrNotFound
}

type mockComplianceService struct {
	reviewFn func(ctx context.Context, user *model.User, generationID, content string) ([]compliance.Report, error)
}

func (m *mockComplianceService) Review(ctx context.Context, user *model.User, generationID, content string) ([]compliance.Report, error) {
	if m.reviewFn != nil {
		return m.reviewFn(ctx, user, generationID, content)
	}
	return nil, nil
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }
