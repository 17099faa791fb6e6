package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

const (
	previewRunes   = 50
	defaultPreview = "内容预览..."
)

type LibraryService interface {
	List(ctx context.Context, user *model.User) ([]model.LibraryItem, error)
	Save(ctx context.Context, user *model.User, generationID string, contentID int) (*model.SavedItem, error)
}

type libraryService struct {
	generations store.GenerationStore
	saved       store.SavedItemStore
	now         func() time.Time
}

func NewLibraryService(generations store.GenerationStore, saved store.SavedItemStore) LibraryService {
	return &libraryService{generations: generations, saved: saved, now: time.Now}
}

// List returns the caller's generations, newest first.
func (s *libraryService) List(ctx context.Context, user *model.User) ([]model.LibraryItem, error) {
	gens, err := s.generations.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}

	items := make([]model.LibraryItem, 0, len(gens))
	for i := len(gens) - 1; i >= 0; i-- {
		items = append(items, toLibraryItem(gens[i]))
	}
	return items, nil
}

func toLibraryItem(g model.Generation) model.LibraryItem {
	item := model.LibraryItem{
		ID:         g.ID,
		Title:      fmt.Sprintf("%s - %s", g.ProductName, g.ContentType),
		Style:      g.WritingStyle,
		Type:       g.ContentType,
		Date:       g.CreatedAt.UTC().Format(time.DateOnly),
		Compliance: model.ComplianceGradeA,
		Published:  false,
		Saved:      true,
		Preview:    defaultPreview,
	}
	if len(g.Variants) > 0 {
		first := g.Variants[0]
		if first.Compliance.Valid() {
			item.Compliance = first.Compliance
		}
		if first.Content != "" {
			item.Preview = preview(first.Content)
		}
	}
	return item
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) > previewRunes {
		runes = runes[:previewRunes]
	}
	return string(runes) + "..."
}

func (s *libraryService) Save(ctx context.Context, user *model.User, generationID string, contentID int) (*model.SavedItem, error) {
	generationID = strings.TrimSpace(generationID)
	if generationID == "" {
		return nil, invalid("generation_id", "缺少文案ID")
	}

	gen, err := s.ownedGeneration(ctx, user, generationID)
	if err != nil {
		return nil, err
	}
	if contentID < 1 || contentID > len(gen.Variants) {
		return nil, invalid("content_id", "文案版本不存在")
	}

	item := &model.SavedItem{
		UserID:       user.ID,
		GenerationID: gen.ID,
		ContentID:    contentID,
		SavedAt:      s.now().UTC(),
	}
	if err := s.saved.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}

	slog.InfoContext(ctx, "copy saved to library", "generation_id", gen.ID, "content_id", contentID)
	return item, nil
}

func (s *libraryService) ownedGeneration(ctx context.Context, user *model.User, generationID string) (*model.Generation, error) {
	return loadOwnedGeneration(ctx, s.generations, user, generationID)
}

// loadOwnedGeneration hides other users' generations behind ErrNotFound.
func loadOwnedGeneration(ctx context.Context, generations store.GenerationStore, user *model.User, generationID string) (*model.Generation, error) {
	if owner, ok := store.GenerationOwner(generationID); !ok || owner != user.ID {
		return nil, ErrNotFound
	}
	gen, err := generations.GetByID(ctx, generationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading generation: %w", err)
	}
	return gen, nil
}
