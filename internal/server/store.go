package server

import (
	"sync"
	"time"

	"github.com/CK6170/sensorcal-go/modern"
)

type RunRecord struct {
	ID      string
	Created time.Time
	Result  *modern.Result
	Summary modern.Summary
	Panels  []modern.Panel
}

func (rec *RunRecord) Response() RunResponse {
	return RunResponse{ID: rec.ID, Created: rec.Created, Summary: rec.Summary}
}

// RunStore keeps the most recent runs in memory. Older runs are evicted once
// limit is reached.
type RunStore struct {
	mu    sync.RWMutex
	limit int
	m     map[string]*RunRecord
	order []string
}

func NewRunStore(limit int) *RunStore {
	if limit <= 0 {
		limit = 1
	}
	return &RunStore{limit: limit, m: make(map[string]*RunRecord)}
}

func (s *RunStore) Put(id string, res *modern.Result) *RunRecord {
	rec := &RunRecord{
		ID:      id,
		Created: time.Now(),
		Result:  res,
		Summary: modern.Summarize(res),
		Panels:  modern.BuildPanels(res),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		s.order = append(s.order, id)
	}
	s.m[id] = rec
	for len(s.order) > s.limit {
		delete(s.m, s.order[0])
		s.order = s.order[1:]
	}
	return rec
}

func (s *RunStore) Get(id string) (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.m[id]
	return r, ok
}

func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// List returns the stored runs, newest first.
func (s *RunStore) List() []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*RunRecord, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.m[s.order[i]])
	}
	return out
}
