package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BitmanAlan/xiaohongshu/internal/metrics"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

type FeedbackInput struct {
	GenerationID string
	Satisfaction model.Satisfaction
	Tags         []string
	Comment      string
}

type FeedbackService interface {
	Submit(ctx context.Context, user *model.User, in FeedbackInput) (*model.Feedback, error)
}

type feedbackService struct {
	feedback store.FeedbackStore
	profiles store.ProfileStore
	events   queue.Producer
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewFeedbackService(feedback store.FeedbackStore, profiles store.ProfileStore, events queue.Producer, m *metrics.Metrics) FeedbackService {
	return &feedbackService{
		feedback: feedback,
		profiles: profiles,
		events:   events,
		metrics:  m,
		now:      time.Now,
	}
}

func (s *feedbackService) Submit(ctx context.Context, user *model.User, in FeedbackInput) (*model.Feedback, error) {
	in.GenerationID = strings.TrimSpace(in.GenerationID)
	if in.GenerationID == "" {
		return nil, invalid("generation_id", "缺少文案ID")
	}
	if !in.Satisfaction.Valid() {
		return nil, invalid("satisfaction", "不支持的满意度: "+string(in.Satisfaction))
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	f := &model.Feedback{
		UserID:       user.ID,
		GenerationID: in.GenerationID,
		Satisfaction: in.Satisfaction,
		Tags:         tags,
		Comment:      strings.TrimSpace(in.Comment),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.feedback.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("storing feedback: %w", err)
	}

	if _, err := s.profiles.IncrementFeedback(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "failed to increment feedback count", "error", err)
		s.metrics.SideEffectFailed("feedback_counter")
	}
	publish(ctx, s.events, queue.Event{Type: queue.EventTypeFeedbackSubmitted, UserID: user.ID, RefID: f.ID})
	s.metrics.FeedbackSubmitted(string(f.Satisfaction))

	slog.InfoContext(ctx, "feedback submitted", "generation_id", f.GenerationID, "satisfaction", f.Satisfaction)
	return f, nil
}
