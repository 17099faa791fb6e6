package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns a process-local Store for development and tests.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string, dest any) error {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *memoryStore) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Create(_ context.Context, key string, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = raw
	return true, nil
}

func (s *memoryStore) GetByPrefix(_ context.Context, prefix string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0)
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, Entry{Key: k, Value: append(json.RawMessage(nil), v...)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (s *memoryStore) Update(_ context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[key]
	if !ok {
		return ErrNotFound
	}
	next, err := fn(append([]byte(nil), current...))
	if err != nil {
		return err
	}
	s.data[key] = next
	return nil
}

func (s *memoryStore) Incr(_ context.Context, key string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if raw, ok := s.data[key]; ok {
		parsed, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("counter %s is not an integer: %w", key, err)
		}
		n = parsed
	}
	n += delta
	s.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (s *memoryStore) Counter(_ context.Context, key string) (int64, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %s is not an integer: %w", key, err)
	}
	return n, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }

func (s *memoryStore) Close() error { return nil }
