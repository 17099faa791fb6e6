package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

type profileStore struct {
	kv  kv.Store
	now func() time.Time
}

func newProfileStore(store kv.Store, now func() time.Time) ProfileStore {
	return &profileStore{kv: store, now: now}
}

func (s *profileStore) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := s.kv.Get(ctx, profileKey(userID), &p); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	stats, err := s.stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.UsageStats = stats
	if p.StylePreferences == nil {
		p.StylePreferences = map[string]any{}
	}
	return &p, nil
}

func (s *profileStore) stats(ctx context.Context, userID string) (model.UsageStats, error) {
	generations, err := s.kv.Counter(ctx, statKey(userID, statTotalGenerations))
	if err != nil {
		return model.UsageStats{}, fmt.Errorf("loading generation count: %w", err)
	}
	feedback, err := s.kv.Counter(ctx, statKey(userID, statTotalFeedback))
	if err != nil {
		return model.UsageStats{}, fmt.Errorf("loading feedback count: %w", err)
	}
	return model.UsageStats{TotalGenerations: generations, TotalFeedback: feedback}, nil
}

func (s *profileStore) Create(ctx context.Context, p *model.UserProfile) (bool, error) {
	if p.StylePreferences == nil {
		p.StylePreferences = map[string]any{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	p.UsageStats = model.UsageStats{}

	created, err := s.kv.Create(ctx, profileKey(p.ID), p)
	if err != nil {
		return false, fmt.Errorf("storing profile: %w", err)
	}
	return created, nil
}

func (s *profileStore) Update(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.UserProfile, error) {
	err := s.kv.Update(ctx, profileKey(userID), func(current []byte) ([]byte, error) {
		var p model.UserProfile
		if err := json.Unmarshal(current, &p); err != nil {
			return nil, fmt.Errorf("decoding profile: %w", err)
		}

		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.StylePreferences != nil {
			if p.StylePreferences == nil {
				p.StylePreferences = map[string]any{}
			}
			maps.Copy(p.StylePreferences, upd.StylePreferences)
		}
		now := s.now()
		p.UpdatedAt = &now

		return json.Marshal(p)
	})
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *profileStore) IncrementGenerations(ctx context.Context, userID string) (int64, error) {
	return s.kv.Incr(ctx, statKey(userID, statTotalGenerations), 1)
}

func (s *profileStore) IncrementFeedback(ctx context.Context, userID string) (int64, error) {
	return s.kv.Incr(ctx, statKey(userID, statTotalFeedback), 1)
}
