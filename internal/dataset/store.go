package dataset

import (
	"strconv"
	"sync"
	"time"

	"omnifetch/internal/entity"

	"github.com/google/uuid"
)

const keyPrefix = "scrape_"

// Store keeps scraped datasets in memory, in insertion order.
type Store struct {
	mu    sync.RWMutex
	now   func() time.Time
	keys  []string
	byKey map[string]*entity.Dataset
}

func NewStore() *Store {
	return newStoreWithClock(time.Now)
}

func newStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:   now,
		byKey: make(map[string]*entity.Dataset),
	}
}

// Save stores items under scrape_HHMMSS. A second dataset within the same
// second gets a _2, _3, ... suffix.
func (s *Store) Save(selector, url string, items []string) *entity.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	base := keyPrefix + now.Format("150405")
	key := base

	for i := 2; s.byKey[key] != nil; i++ {
		key = base + "_" + strconv.Itoa(i)
	}

	stored := make([]string, len(items))
	copy(stored, items)

	ds := &entity.Dataset{
		ID:        uuid.New(),
		Key:       key,
		Selector:  selector,
		URL:       url,
		Items:     stored,
		CreatedAt: now,
	}

	s.keys = append(s.keys, key)
	s.byKey[key] = ds

	return ds
}

func (s *Store) Get(key string) (*entity.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.byKey[key]

	return ds, ok
}

func (s *Store) List() []*entity.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Dataset, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.byKey[key])
	}

	return out
}
