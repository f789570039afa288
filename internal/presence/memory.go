package presence

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps presence rows in a nested map keyed by document then user.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]map[string]*Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]map[string]*Record)}
}

func (m *MemoryRepo) Heartbeat(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byUser, ok := m.docs[rec.DocumentID]
	if !ok {
		byUser = make(map[string]*Record)
		m.docs[rec.DocumentID] = byUser
	}
	cp := *rec
	byUser[rec.UserID] = &cp
	return nil
}

func (m *MemoryRepo) ListActive(_ context.Context, documentID, excludeUserID string, now time.Time) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Record{}
	for _, r := range m.docs[documentID] {
		if r.UserID == excludeUserID || !r.Active(now) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo) DeleteAllForDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, documentID)
	return nil
}

// DeleteIdleBefore removes rows whose lastSeen is older than cutoff and
// reports how many were dropped.
func (m *MemoryRepo) DeleteIdleBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for docID, byUser := range m.docs {
		for userID, r := range byUser {
			if r.LastSeen.Before(cutoff) {
				delete(byUser, userID)
				n++
			}
		}
		if len(byUser) == 0 {
			delete(m.docs, docID)
		}
	}
	return n, nil
}
