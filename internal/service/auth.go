package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

// Session is what a successful sign-in hands back to the client.
type Session struct {
	User        *model.User
	AccessToken string
	ExpiresIn   time.Duration
}

type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	identity IdentityProvider
	tokens   *TokenIssuer
	profiles store.ProfileStore
	events   queue.Producer
}

func NewAuthService(identity IdentityProvider, tokens *TokenIssuer, profiles store.ProfileStore, events queue.Producer) AuthService {
	return &authService{
		identity: identity,
		tokens:   tokens,
		profiles: profiles,
		events:   events,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, invalid("email", "缺少必填字段")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email", "邮箱格式不正确")
	}

	user, err := s.identity.CreateUser(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user signed up", "user_id", user.ID, "identity_provider", s.identity.Name())

	// the account exists either way; a missing profile is recreated on sign-in
	s.ensureProfile(ctx, user)
	publish(ctx, s.events, queue.Event{Type: queue.EventTypeUserSignedUp, UserID: user.ID, RefID: user.ID})

	return user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalid("email", "缺少必填字段")
	}

	user, err := s.identity.AuthenticatePassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			slog.InfoContext(ctx, "sign-in rejected", "identity_provider", s.identity.Name())
		}
		return nil, err
	}

	s.ensureProfile(ctx, user)

	token, ttl, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	slog.InfoContext(ctx, "user signed in", "user_id", user.ID)
	return &Session{User: user, AccessToken: token, ExpiresIn: ttl}, nil
}

func (s *authService) Authenticate(_ context.Context, token string) (*model.User, error) {
	return s.tokens.Verify(token)
}

func (s *authService) ensureProfile(ctx context.Context, user *model.User) {
	_, err := s.profiles.Create(ctx, &model.UserProfile{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to create user profile", "error", err, "user_id", user.ID)
	}
}
