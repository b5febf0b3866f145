package store

import (
	"sync"

	"github.com/AngelCh415/novaretail/internal/models"
)

// MemoryStore holds the loaded dataset snapshot. Readers get copies, so the
// snapshot stays read-only after Replace.
type MemoryStore struct {
	mu     sync.RWMutex
	ds     models.Dataset
	loaded bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Replace(ds models.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = models.Dataset{
		Campaigns: append([]models.CampaignMetrics(nil), ds.Campaigns...),
		Leads:     cloneLeads(ds.Leads),
	}
	s.loaded = true
}

func (s *MemoryStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *MemoryStore) Snapshot() (models.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return models.Dataset{}, false
	}
	return models.Dataset{
		Campaigns: append([]models.CampaignMetrics(nil), s.ds.Campaigns...),
		Leads:     cloneLeads(s.ds.Leads),
	}, true
}

// Query returns the enriched leads accepted by f, in load order. A nil f
// accepts every lead.
func (s *MemoryStore) Query(f func(models.EnrichedLead) bool) []models.EnrichedLead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.EnrichedLead
	for _, l := range s.ds.Leads {
		if f == nil || f(l) {
			out = append(out, l)
		}
	}
	return cloneLeads(out)
}

func cloneLeads(in []models.EnrichedLead) []models.EnrichedLead {
	if in == nil {
		return nil
	}
	out := make([]models.EnrichedLead, len(in))
	for i, l := range in {
		if l.CRM != nil {
			rec := *l.CRM
			l.CRM = &rec
		}
		out[i] = l
	}
	return out
}
