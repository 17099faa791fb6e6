package store

import (
	"time"

	"github.com/BitmanAlan/xiaohongshu/core/kv"
)

type Stores struct {
	kv  kv.Store
	now func() time.Time
}

func NewStores(store kv.Store) *Stores {
	return &Stores{kv: store, now: time.Now}
}

// WithClock replaces the clock used for profile timestamps.
func (s *Stores) WithClock(now func() time.Time) *Stores {
	return &Stores{kv: s.kv, now: now}
}

func (s *Stores) Generations() GenerationStore {
	return newGenerationStore(s.kv)
}

func (s *Stores) Profiles() ProfileStore {
	return newProfileStore(s.kv, s.now)
}

func (s *Stores) Feedback() FeedbackStore {
	return newFeedbackStore(s.kv)
}

func (s *Stores) Training() TrainingStore {
	return newTrainingStore(s.kv)
}

func (s *Stores) SavedItems() SavedItemStore {
	return newSavedItemStore(s.kv)
}

func (s *Stores) Credentials() CredentialStore {
	return newCredentialStore(s.kv)
}

// KV exposes the underlying store for health checks.
func (s *Stores) KV() kv.Store {
	return s.kv
}
