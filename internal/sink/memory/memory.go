package memory

import (
	"context"
	"sort"
	"sync"

	"annbridge/internal/domain"
	"annbridge/internal/sink"
)

// Storage is an in-memory Sink, used for dry runs and by the browser.
type Storage struct {
	mu      sync.RWMutex
	records map[string][]domain.Record
	seen    map[string]sink.Seen
}

func NewStorage() *Storage {
	return &Storage{
		records: make(map[string][]domain.Record),
		seen:    make(map[string]sink.Seen),
	}
}

// Upload stores records for item, skipping ones already stored for it.
func (s *Storage) Upload(ctx context.Context, item domain.Item, records []domain.Record) (domain.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.UploadResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seen, ok := s.seen[item.ID]
	if !ok {
		seen = sink.NewSeen(nil)
		s.seen[item.ID] = seen
	}
	fresh, skipped := seen.Filter(records)
	s.records[item.ID] = append(s.records[item.ID], fresh...)
	return domain.UploadResult{Sent: len(fresh), Skipped: skipped}, nil
}

// Records returns the records stored for an item, in upload order.
func (s *Storage) Records(itemID string) []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, len(s.records[itemID]))
	copy(out, s.records[itemID])
	return out
}

// Items returns the IDs of items with stored records.
func (s *Storage) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clear drops every stored record.
func (s *Storage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string][]domain.Record)
	s.seen = make(map[string]sink.Seen)
}
