package store

import (
	"sync"
	"time"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

// Snapshot is the dataset currently being served. The dataset is never
// mutated after Put; readers share it without copying.
type Snapshot struct {
	Dataset  *models.Dataset
	Version  int
	Source   string
	LoadedAt time.Time
}

type MemoryStore struct {
	mu   sync.RWMutex
	cur  *Snapshot
	next int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Put replaces the served dataset and returns its version.
func (s *MemoryStore) Put(ds *models.Dataset, source string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.cur = &Snapshot{Dataset: ds, Version: s.next, Source: source, LoadedAt: time.Now().UTC()}
	return *s.cur
}

// Current returns the served snapshot, or false when nothing has been loaded.
func (s *MemoryStore) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return Snapshot{}, false
	}
	return *s.cur, true
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
}
