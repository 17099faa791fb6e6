package store

import (
	"context"
	"errors"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// GenerationStore persists immutable generation records.
type GenerationStore interface {
	// Create assigns g.ID from the user and g.CreatedAt, then stores it
	// without overwriting. When the millisecond is taken, CreatedAt moves
	// forward until a free key is found.
	Create(ctx context.Context, g *model.Generation) error
	GetByID(ctx context.Context, id string) (*model.Generation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Generation, error)
}

// ProfileStore persists user profiles. Usage counters live in their own
// keys so increments never race with profile edits.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
	// Create stores p unless a profile already exists. Reports whether it wrote.
	Create(ctx context.Context, p *model.UserProfile) (bool, error)
	Update(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.UserProfile, error)
	IncrementGenerations(ctx context.Context, userID string) (int64, error)
	IncrementFeedback(ctx context.Context, userID string) (int64, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, f *model.Feedback) error
	ListByUser(ctx context.Context, userID string) ([]model.Feedback, error)
}

type TrainingStore interface {
	Create(ctx context.Context, t *model.TrainingSession) error
	ListByUser(ctx context.Context, userID string) ([]model.TrainingSession, error)
}

type SavedItemStore interface {
	Create(ctx context.Context, s *model.SavedItem) error
	ListByUser(ctx context.Context, userID string) ([]model.SavedItem, error)
}

// CredentialStore holds local password credentials keyed by normalized email.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Credential, error)
	// Create returns ErrConflict when the email is already registered.
	Create(ctx context.Context, c *model.Credential) error
}

// ErrConflict is returned when creating an entity that already exists
var ErrConflict = errors.New("already exists")
