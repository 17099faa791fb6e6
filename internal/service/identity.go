package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/workos/workos-go/v6/pkg/usermanagement"
	"github.com/workos/workos-go/v6/pkg/workos_errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/BitmanAlan/xiaohongshu/common/id"
	"github.com/BitmanAlan/xiaohongshu/core/config"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

// IdentityProvider owns user accounts and passwords.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, name string) (*model.User, error)
	AuthenticatePassword(ctx context.Context, email, password string) (*model.User, error)
	Name() string
}

type workosIdentity struct {
	clientID string
}

// NewWorkOSIdentity delegates accounts to WorkOS User Management.
func NewWorkOSIdentity(cfg config.WorkOSConfig) IdentityProvider {
	usermanagement.SetAPIKey(cfg.APIKey)
	return &workosIdentity{clientID: cfg.ClientID}
}

func (p *workosIdentity) Name() string { return "workos" }

func (p *workosIdentity) CreateUser(ctx context.Context, email, password, name string) (*model.User, error) {
	first, last := splitName(name)
	u, err := usermanagement.CreateUser(ctx, usermanagement.CreateUserOpts{
		Email:         email,
		Password:      password,
		FirstName:     first,
		LastName:      last,
		EmailVerified: true,
	})
	if err != nil {
		if httpStatus(err) == http.StatusConflict || httpStatus(err) == http.StatusUnprocessableEntity {
			return nil, fmt.Errorf("%w: %v", ErrEmailTaken, err)
		}
		return nil, fmt.Errorf("%w: creating user: %v", ErrIdentityUnavailable, err)
	}
	return &model.User{ID: u.ID, Email: u.Email, Name: joinName(u.FirstName, u.LastName, name)}, nil
}

func (p *workosIdentity) AuthenticatePassword(ctx context.Context, email, password string) (*model.User, error) {
	resp, err := usermanagement.AuthenticateWithPassword(ctx, usermanagement.AuthenticateWithPasswordOpts{
		ClientID: p.clientID,
		Email:    email,
		Password: password,
	})
	if err != nil {
		status := httpStatus(err)
		if status >= 400 && status < 500 {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: authenticating: %v", ErrIdentityUnavailable, err)
	}
	u := resp.User
	return &model.User{ID: u.ID, Email: u.Email, Name: joinName(u.FirstName, u.LastName, u.Email)}, nil
}

func httpStatus(err error) int {
	var httpErr workos_errors.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return 0
}

func splitName(name string) (string, string) {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(last)
}

func joinName(first, last, fallback string) string {
	if n := strings.TrimSpace(first + " " + last); n != "" {
		return n
	}
	return fallback
}

type localIdentity struct {
	credentials store.CredentialStore
	now         func() time.Time
}

// NewLocalIdentity keeps bcrypt credentials in the key-value store. Meant
// for development and single-node deployments without WorkOS.
func NewLocalIdentity(credentials store.CredentialStore) IdentityProvider {
	return &localIdentity{credentials: credentials, now: time.Now}
}

func (p *localIdentity) Name() string { return "local" }

func (p *localIdentity) CreateUser(ctx context.Context, email, password, name string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	cred := &model.Credential{
		UserID:       "user_" + id.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.credentials.Create(ctx, cred); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating credential: %w", err)
	}

	slog.DebugContext(ctx, "local identity created", "user_id", cred.UserID)
	return &model.User{ID: cred.UserID, Email: cred.Email, Name: cred.Name}, nil
}

func (p *localIdentity) AuthenticatePassword(ctx context.Context, email, password string) (*model.User, error) {
	cred, err := p.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &model.User{ID: cred.UserID, Email: cred.Email, Name: cred.Name}, nil
}
