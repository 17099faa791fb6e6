package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

const nsIdentity = "identity"

type credentialStore struct {
	kv kv.Store
}

func newCredentialStore(store kv.Store) CredentialStore {
	return &credentialStore{kv: store}
}

func credentialKey(email string) string {
	return kv.Key(nsIdentity, strings.ToLower(strings.TrimSpace(email)))
}

func (s *credentialStore) GetByEmail(ctx context.Context, email string) (*model.Credential, error) {
	var c model.Credential
	if err := s.kv.Get(ctx, credentialKey(email), &c); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading credential: %w", err)
	}
	return &c, nil
}

func (s *credentialStore) Create(ctx context.Context, c *model.Credential) error {
	created, err := s.kv.Create(ctx, credentialKey(c.Email), c)
	if err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	if !created {
		return ErrConflict
	}
	return nil
}
