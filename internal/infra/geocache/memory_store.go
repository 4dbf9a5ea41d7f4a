package geocache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/pawpulse/internal/domain/geo"
)

type pointRecord struct {
	point     geo.Point
	expiresAt time.Time
}

// MemoryStore keeps geocode results in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	points  map[string]pointRecord
	maxSize int
	now     func() time.Time
}

// NewMemoryStore constructs a store bounded to maxSize entries (<=0 means 1024).
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &MemoryStore{
		points:  make(map[string]pointRecord),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get implements geo.Cache.
func (s *MemoryStore) Get(_ context.Context, key string) (geo.Point, bool, error) {
	s.mu.RLock()
	record, ok := s.points[key]
	s.mu.RUnlock()
	if !ok {
		return geo.Point{}, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.points, key)
		s.mu.Unlock()
		return geo.Point{}, false, nil
	}
	return record.point, true, nil
}

// Set implements geo.Cache. A non-positive ttl keeps the entry until evicted.
func (s *MemoryStore) Set(_ context.Context, key string, point geo.Point, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.points[key]; !exists && len(s.points) >= s.maxSize {
		s.evictLocked()
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.points[key] = pointRecord{point: point, expiresAt: exp}
	return nil
}

// Len reports the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// evictLocked drops expired entries, or an arbitrary one when none expired.
func (s *MemoryStore) evictLocked() {
	removed := false
	for key, record := range s.points {
		if s.hasExpired(record.expiresAt) {
			delete(s.points, key)
			removed = true
		}
	}
	if removed {
		return
	}
	for key := range s.points {
		delete(s.points, key)
		return
	}
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ geo.Cache = (*MemoryStore)(nil)
