package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

// CachedScheduleStore is a read-through cache in front of a schedule.Store.
// Entries written by this process are refreshed on save; changes made by
// other instances become visible once the entry expires.
type CachedScheduleStore struct {
	next  schedule.Store
	cache *expirable.LRU[string, schedule.Config]
}

func NewCachedScheduleStore(next schedule.Store, size int, ttl time.Duration) *CachedScheduleStore {
	if size <= 0 {
		size = 256
	}
	return &CachedScheduleStore{
		next:  next,
		cache: expirable.NewLRU[string, schedule.Config](size, nil, ttl),
	}
}

func (s *CachedScheduleStore) LoadSchedule(ctx context.Context, doctorID string) (schedule.Config, error) {
	if cfg, ok := s.cache.Get(doctorID); ok {
		return cfg.Clone(), nil
	}

	cfg, err := s.next.LoadSchedule(ctx, doctorID)
	if err != nil {
		return schedule.Config{}, err
	}
	s.cache.Add(doctorID, cfg.Clone())
	return cfg, nil
}

func (s *CachedScheduleStore) SaveSchedule(ctx context.Context, doctorID string, cfg schedule.Config) error {
	if err := s.next.SaveSchedule(ctx, doctorID, cfg); err != nil {
		s.cache.Remove(doctorID)
		return err
	}
	s.cache.Add(doctorID, cfg.Clone())
	return nil
}

var _ schedule.Store = (*CachedScheduleStore)(nil)
