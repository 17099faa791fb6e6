package service

import (
	"context"
	"strings"

	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

const customContentTitle = "自定义文案"

type ComplianceService interface {
	// Review scores the variants of a stored generation, or a single piece
	// of free text when generationID is empty.
	Review(ctx context.Context, user *model.User, generationID, content string) ([]compliance.Report, error)
}

type complianceService struct {
	analyzer    *compliance.Analyzer
	generations store.GenerationStore
}

func NewComplianceService(analyzer *compliance.Analyzer, generations store.GenerationStore) ComplianceService {
	return &complianceService{analyzer: analyzer, generations: generations}
}

func (s *complianceService) Review(ctx context.Context, user *model.User, generationID, content string) ([]compliance.Report, error) {
	generationID = strings.TrimSpace(generationID)
	if generationID != "" {
		gen, err := loadOwnedGeneration(ctx, s.generations, user, generationID)
		if err != nil {
			return nil, err
		}
		return s.analyzer.Review(gen.Variants), nil
	}

	if strings.TrimSpace(content) == "" {
		return nil, invalid("content", "缺少待检测的文案")
	}
	report := s.analyzer.Analyze(content)
	report.VariantID = 1
	report.Title = customContentTitle
	return []compliance.Report{report}, nil
}
