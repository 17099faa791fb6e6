package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

// maxKeyCollisions bounds how far Create walks forward from CreatedAt.
const maxKeyCollisions = 1000

type generationStore struct {
	kv kv.Store
}

func newGenerationStore(store kv.Store) GenerationStore {
	return &generationStore{kv: store}
}

func (s *generationStore) Create(ctx context.Context, g *model.Generation) error {
	for range maxKeyCollisions {
		g.ID = GenerationKey(g.UserID, g.CreatedAt)
		created, err := s.kv.Create(ctx, g.ID, g)
		if err != nil {
			return fmt.Errorf("storing generation: %w", err)
		}
		if created {
			return nil
		}
		// same user, same millisecond: take the next free one
		g.CreatedAt = g.CreatedAt.Add(time.Millisecond)
	}
	return fmt.Errorf("storing generation: no free key near %s", g.ID)
}

func (s *generationStore) GetByID(ctx context.Context, id string) (*model.Generation, error) {
	var g model.Generation
	if err := s.kv.Get(ctx, id, &g); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading generation: %w", err)
	}
	return &g, nil
}

func (s *generationStore) ListByUser(ctx context.Context, userID string) ([]model.Generation, error) {
	return listByPrefix[model.Generation](ctx, s.kv, kv.Prefix(nsGeneration, userID))
}

// listByPrefix decodes every entry under prefix, in key order.
func listByPrefix[T any](ctx context.Context, store kv.Store, prefix string) ([]T, error) {
	entries, err := store.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", prefix, err)
	}

	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := e.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
