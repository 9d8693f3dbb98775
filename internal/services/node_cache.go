package services

import (
	"context"
	"fmt"
	"time"

	"mcpserver/internal/metrics"
	"mcpserver/internal/models"
	"mcpserver/internal/utils"
)

// CachedNodeStore serves Get from a local LRU in front of another store.
// Nodes never change after creation, so entries only leave the cache by
// eviction or ttl. Not-found results are not cached.
type CachedNodeStore struct {
	next    NodeStore
	cache   *utils.Cache[int64, models.Node]
	metrics *metrics.Manager
}

// NewCachedNodeStore wraps next with a cache of the given size. m may be nil.
func NewCachedNodeStore(next NodeStore, size int, ttl time.Duration, m *metrics.Manager) (*CachedNodeStore, error) {
	c, err := utils.NewCache[int64, models.Node](size, ttl)
	if err != nil {
		return nil, fmt.Errorf("node cache: %w", err)
	}
	return &CachedNodeStore{next: next, cache: c, metrics: m}, nil
}

func (s *CachedNodeStore) Create(ctx context.Context, name, org string) (models.Node, error) {
	node, err := s.next.Create(ctx, name, org)
	if err != nil {
		return models.Node{}, err
	}
	s.cache.Set(node.ID, node)
	return node, nil
}

func (s *CachedNodeStore) Get(ctx context.Context, id int64) (models.Node, error) {
	if node, ok := s.cache.Get(id); ok {
		s.recordLookup(true)
		return node, nil
	}
	s.recordLookup(false)

	node, err := s.next.Get(ctx, id)
	if err != nil {
		return models.Node{}, err
	}
	s.cache.Set(id, node)
	return node, nil
}

func (s *CachedNodeStore) List(ctx context.Context) ([]models.Node, error) {
	return s.next.List(ctx)
}

func (s *CachedNodeStore) recordLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}
