package store

import (
	"context"
	"fmt"

	"github.com/BitmanAlan/xiaohongshu/common/id"
	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

type feedbackStore struct {
	kv kv.Store
}

func newFeedbackStore(store kv.Store) FeedbackStore {
	return &feedbackStore{kv: store}
}

func (s *feedbackStore) Create(ctx context.Context, f *model.Feedback) error {
	f.ID = kv.Key(nsFeedback, f.UserID, id.NewString())
	if err := s.kv.Set(ctx, f.ID, f); err != nil {
		return fmt.Errorf("storing feedback: %w", err)
	}
	return nil
}

func (s *feedbackStore) ListByUser(ctx context.Context, userID string) ([]model.Feedback, error) {
	return listByPrefix[model.Feedback](ctx, s.kv, kv.Prefix(nsFeedback, userID))
}

type trainingStore struct {
	kv kv.Store
}

func newTrainingStore(store kv.Store) TrainingStore {
	return &trainingStore{kv: store}
}

func (s *trainingStore) Create(ctx context.Context, t *model.TrainingSession) error {
	t.ID = kv.Key(nsTraining, t.UserID, id.NewString())
	if err := s.kv.Set(ctx, t.ID, t); err != nil {
		return fmt.Errorf("storing training session: %w", err)
	}
	return nil
}

func (s *trainingStore) ListByUser(ctx context.Context, userID string) ([]model.TrainingSession, error) {
	return listByPrefix[model.TrainingSession](ctx, s.kv, kv.Prefix(nsTraining, userID))
}

type savedItemStore struct {
	kv kv.Store
}

func newSavedItemStore(store kv.Store) SavedItemStore {
	return &savedItemStore{kv: store}
}

func (s *savedItemStore) Create(ctx context.Context, item *model.SavedItem) error {
	item.ID = kv.Key(nsSaved, item.UserID, id.NewString())
	if err := s.kv.Set(ctx, item.ID, item); err != nil {
		return fmt.Errorf("storing saved item: %w", err)
	}
	return nil
}

func (s *savedItemStore) ListByUser(ctx context.Context, userID string) ([]model.SavedItem, error) {
	return listByPrefix[model.SavedItem](ctx, s.kv, kv.Prefix(nsSaved, userID))
}
