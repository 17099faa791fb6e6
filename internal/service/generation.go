package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BitmanAlan/xiaohongshu/common/llm"
	"github.com/BitmanAlan/xiaohongshu/common/logger"
	"github.com/BitmanAlan/xiaohongshu/internal/metrics"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

const defaultAITimeout = 45 * time.Second

type GenerateInput struct {
	ProductName    string
	SelectedTags   []string
	ContentType    model.ContentType
	TargetAudience model.TargetAudience
	WritingStyle   model.WritingStyle
}

type GenerateResult struct {
	Generation *model.Generation
	Source     ParseSource
	// Notice is set when the variants came from the fallback templates.
	Notice string
}

type GenerationService interface {
	Generate(ctx context.Context, user *model.User, in GenerateInput) (*GenerateResult, error)
}

type GenerationOptions struct {
	Timeout          time.Duration
	StructuredOutput bool
}

type generationService struct {
	llm         llm.Client
	generations store.GenerationStore
	profiles    store.ProfileStore
	events      queue.Producer
	metrics     *metrics.Metrics
	opts        GenerationOptions
	now         func() time.Time
}

func NewGenerationService(
	client llm.Client,
	generations store.GenerationStore,
	profiles store.ProfileStore,
	events queue.Producer,
	m *metrics.Metrics,
	opts GenerationOptions,
) GenerationService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultAITimeout
	}
	return &generationService{
		llm:         client,
		generations: generations,
		profiles:    profiles,
		events:      events,
		metrics:     m,
		opts:        opts,
		now:         time.Now,
	}
}

func validateGenerateInput(in *GenerateInput) error {
	in.ProductName = strings.TrimSpace(in.ProductName)
	for _, f := range []struct {
		name  string
		empty bool
	}{
		{"productName", in.ProductName == ""},
		{"contentType", in.ContentType == ""},
		{"targetAudience", in.TargetAudience == ""},
		{"writingStyle", in.WritingStyle == ""},
	} {
		if f.empty {
			return invalid(f.name, "缺少必填参数")
		}
	}
	if !in.ContentType.Valid() {
		return invalid("contentType", "不支持的内容类型: "+string(in.ContentType))
	}
	if !in.TargetAudience.Valid() {
		return invalid("targetAudience", "不支持的目标用户: "+string(in.TargetAudience))
	}
	if !in.WritingStyle.Valid() {
		return invalid("writingStyle", "不支持的文案风格: "+string(in.WritingStyle))
	}

	tags := make([]string, 0, len(in.SelectedTags))
	for _, t := range in.SelectedTags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	in.SelectedTags = tags
	return nil
}

func (s *generationService) Generate(ctx context.Context, user *model.User, in GenerateInput) (*GenerateResult, error) {
	if err := validateGenerateInput(&in); err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "copywriter.service.generation"})

	// generation and persistence outlive the caller's connection
	work := context.WithoutCancel(ctx)

	slog.InfoContext(ctx, "generating copy",
		"product_name", logger.Truncate(in.ProductName, 40),
		"content_type", in.ContentType,
		"target_audience", in.TargetAudience,
		"writing_style", in.WritingStyle,
		"tag_count", len(in.SelectedTags))

	variants, source := s.complete(work, in)

	createdAt := s.now().UTC()
	gen := &model.Generation{
		ID:             store.GenerationKey(user.ID, createdAt),
		UserID:         user.ID,
		ProductName:    in.ProductName,
		SelectedTags:   in.SelectedTags,
		ContentType:    in.ContentType,
		TargetAudience: in.TargetAudience,
		WritingStyle:   in.WritingStyle,
		Variants:       variants,
		FallbackUsed:   source == ParseSourceFallback,
		AIProvider:     s.llm.Provider(),
		CreatedAt:      createdAt,
	}
	if err := s.generations.Create(work, gen); err != nil {
		slog.ErrorContext(work, "failed to store generation", "error", err)
		s.metrics.SideEffectFailed("generation_record")
	}
	work = logger.WithLogFields(work, logger.LogFields{GenerationID: logger.Ptr(gen.ID)})
	if _, err := s.profiles.IncrementGenerations(work, user.ID); err != nil {
		slog.WarnContext(work, "failed to increment generation count", "error", err)
		s.metrics.SideEffectFailed("generation_counter")
	}
	publish(work, s.events, queue.Event{
		Type:         queue.EventTypeGenerationCompleted,
		UserID:       user.ID,
		RefID:        gen.ID,
		FallbackUsed: gen.FallbackUsed,
	})

	if gen.FallbackUsed {
		s.metrics.GenerationCompleted("fallback")
	} else {
		s.metrics.GenerationCompleted("ai")
	}

	slog.InfoContext(work, "generation completed", "source", source, "fallback_used", gen.FallbackUsed)

	result := &GenerateResult{Generation: gen, Source: source}
	if gen.FallbackUsed {
		result.Notice = fallbackNotice
	}
	return result, nil
}

// complete calls the model once and returns exactly VariantCount variants.
// Any failure selects the fallback templates.
func (s *generationService) complete(ctx context.Context, in GenerateInput) ([]model.CopyVariant, ParseSource) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	req := llm.Request{
		SystemPrompt: buildSystemPrompt(in.ContentType, in.TargetAudience, in.WritingStyle, s.opts.StructuredOutput),
		UserPrompt:   buildUserPrompt(in.ProductName, in.SelectedTags),
	}
	if s.opts.StructuredOutput {
		req.SchemaName = "copy_variants"
		req.Schema = llm.GenerateSchema[structuredVariants]()
	}

	start := time.Now()
	resp, err := s.llm.Complete(ctx, req)
	s.metrics.LLMCall(s.llm.Provider(), "generate", llm.Classify(err), time.Since(start).Seconds())
	if err != nil {
		slog.WarnContext(ctx, "ai generation failed, using fallback templates",
			"error", err,
			"reason", llm.Classify(err))
		return fallbackVariants(in), ParseSourceFallback
	}

	parsed, source := parseVariants(resp.Text)
	slog.DebugContext(ctx, "ai reply parsed", "source", source, "parsed_variants", len(parsed))
	return completeVariants(parsed, in), source
}
