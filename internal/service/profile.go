package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

type ProfileService interface {
	Get(ctx context.Context, user *model.User) (*model.UserProfile, error)
	Update(ctx context.Context, user *model.User, upd model.ProfileUpdate) (*model.UserProfile, error)
}

type profileService struct {
	profiles store.ProfileStore
}

func NewProfileService(profiles store.ProfileStore) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, user *model.User) (*model.UserProfile, error) {
	p, err := s.profiles.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, user *model.User, upd model.ProfileUpdate) (*model.UserProfile, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("name", "昵称不能为空")
		}
		upd.Name = &name
	}

	p, err := s.profiles.Update(ctx, user.ID, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return p, nil
}
