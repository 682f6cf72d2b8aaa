package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/PabloGalante/jarvis-agent/internal/domain"
)

// BriefingStore is a simple in-memory implementation of
// domain.BriefingStore. It is NOT persistent and is only suitable for
// development / local mode.
type BriefingStore struct {
	mu   sync.RWMutex
	docs map[string]*domain.Briefing
}

func NewBriefingStore() *BriefingStore {
	return &BriefingStore{
		docs: make(map[string]*domain.Briefing),
	}
}

func key(identity domain.IdentityID, date string) string {
	return string(identity) + "|" + date
}

func (s *BriefingStore) Get(ctx context.Context, identity domain.IdentityID, date string) (*domain.Briefing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.docs[key(identity, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b.Clone(), nil
}

// Save performs a full overwrite of the (identity, date) document.
func (s *BriefingStore) Save(ctx context.Context, identity domain.IdentityID, date string, briefing *domain.Briefing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[key(identity, date)] = briefing.Clone()
	return nil
}

// PatchTasks replaces only the task list of an existing document.
func (s *BriefingStore) PatchTasks(ctx context.Context, identity domain.IdentityID, date string, tasks []domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.docs[key(identity, date)]
	if !ok {
		return domain.ErrNotFound
	}
	b.Tasks = domain.CloneTasks(tasks)
	return nil
}

// ListDates returns the identity's briefing dates, newest first.
func (s *BriefingStore) ListDates(ctx context.Context, identity domain.IdentityID, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := string(identity) + "|"
	var dates []string
	for k := range s.docs {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			dates = append(dates, k[len(prefix):])
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}
