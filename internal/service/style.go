package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/BitmanAlan/xiaohongshu/common/llm"
	"github.com/BitmanAlan/xiaohongshu/internal/metrics"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

type StyleProfile struct {
	Sessions []model.TrainingSession
	Total    int
}

type StyleService interface {
	Analyze(ctx context.Context, user *model.User, trainingText, accountTag string) (model.StyleAnalysis, error)
	Profile(ctx context.Context, user *model.User) (*StyleProfile, error)
}

type styleService struct {
	llm      llm.Client
	training store.TrainingStore
	events   queue.Producer
	metrics  *metrics.Metrics
	timeout  time.Duration
	now      func() time.Time
}

func NewStyleService(client llm.Client, training store.TrainingStore, events queue.Producer, m *metrics.Metrics, timeout time.Duration) StyleService {
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &styleService{
		llm:      client,
		training: training,
		events:   events,
		metrics:  m,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *styleService) Analyze(ctx context.Context, user *model.User, trainingText, accountTag string) (model.StyleAnalysis, error) {
	if strings.TrimSpace(trainingText) == "" {
		return nil, invalid("training_text", "训练文本不能为空")
	}

	work := context.WithoutCancel(ctx)
	analysis := s.analyze(work, trainingText)

	session := &model.TrainingSession{
		UserID:         user.ID,
		TrainingText:   trainingText,
		AccountTag:     strings.TrimSpace(accountTag),
		AnalysisResult: analysis,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.training.Create(work, session); err != nil {
		return nil, fmt.Errorf("storing training session: %w", err)
	}

	publish(work, s.events, queue.Event{Type: queue.EventTypeStyleAnalyzed, UserID: user.ID, RefID: session.ID})
	return analysis, nil
}

func (s *styleService) analyze(ctx context.Context, trainingText string) model.StyleAnalysis {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.llm.Complete(ctx, llm.Request{
		SystemPrompt: styleSystemPrompt,
		UserPrompt:   buildStylePrompt(trainingText),
	})
	s.metrics.LLMCall(s.llm.Provider(), "style", llm.Classify(err), time.Since(start).Seconds())
	if err != nil {
		slog.WarnContext(ctx, "style analysis failed, using fallback", "error", err, "reason", llm.Classify(err))
		return fallbackStyleAnalysis(s.now())
	}

	if analysis, ok := parseStyleAnalysis(resp.Text); ok {
		return analysis
	}
	return defaultStyleAnalysis(resp.Text)
}

// parseStyleAnalysis accepts a JSON object, bare or inside a fenced block.
func parseStyleAnalysis(text string) (model.StyleAnalysis, bool) {
	for _, candidate := range jsonCandidates(strings.TrimSpace(text)) {
		if !gjson.Valid(candidate) || !gjson.Parse(candidate).IsObject() {
			continue
		}
		var analysis model.StyleAnalysis
		if err := json.Unmarshal([]byte(candidate), &analysis); err == nil && len(analysis) > 0 {
			return analysis, true
		}
	}
	return nil, false
}

func defaultStyleAnalysis(raw string) model.StyleAnalysis {
	return model.StyleAnalysis{
		"style_types":      []string{"个人化", "真实感", "分享型"},
		"word_frequency":   []string{"真的", "推荐", "很好", "喜欢"},
		"sentence_pattern": "多用陈述句和感叹句，语言亲切自然",
		"emotional_tone":   "积极正面，带有个人体验感",
		"ai_analysis":      raw,
	}
}

func fallbackStyleAnalysis(now time.Time) model.StyleAnalysis {
	return model.StyleAnalysis{
		"style_types":      []string{"亲切", "真实", "分享"},
		"word_frequency":   []string{"真的", "推荐", "很好", "效果"},
		"sentence_pattern": "多用感叹句和疑问句，语言生动活泼",
		"emotional_tone":   "积极正面，带有亲和力",
		"analyzed_at":      now.UTC().Format(time.RFC3339),
	}
}

func (s *styleService) Profile(ctx context.Context, user *model.User) (*StyleProfile, error) {
	sessions, err := s.training.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing training sessions: %w", err)
	}
	return &StyleProfile{Sessions: sessions, Total: len(sessions)}, nil
}
