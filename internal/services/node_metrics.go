package services

import (
	"context"
	"errors"
	"time"

	"mcpserver/internal/metrics"
	"mcpserver/internal/models"
)

// InstrumentedNodeStore records latency and outcome of every call on next.
type InstrumentedNodeStore struct {
	next    NodeStore
	metrics *metrics.Manager
}

func NewInstrumentedNodeStore(next NodeStore, m *metrics.Manager) *InstrumentedNodeStore {
	return &InstrumentedNodeStore{next: next, metrics: m}
}

func (s *InstrumentedNodeStore) Create(ctx context.Context, name, org string) (models.Node, error) {
	start := time.Now()
	node, err := s.next.Create(ctx, name, org)
	s.observe("create", start, err)
	if err == nil {
		s.metrics.RecordNodeCreated()
	}
	return node, err
}

func (s *InstrumentedNodeStore) Get(ctx context.Context, id int64) (models.Node, error) {
	start := time.Now()
	node, err := s.next.Get(ctx, id)
	s.observe("get", start, err)
	return node, err
}

func (s *InstrumentedNodeStore) List(ctx context.Context) ([]models.Node, error) {
	start := time.Now()
	nodes, err := s.next.List(ctx)
	s.observe("list", start, err)
	return nodes, err
}

func (s *InstrumentedNodeStore) observe(op string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, ErrNodeNotFound):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeError
	}
	s.metrics.RecordStoreOperation(op, outcome, time.Since(start))
}
