package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mcpserver/internal/metrics"
	"mcpserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore is an in-memory NodeStore that counts Get calls.
type countingStore struct {
	nodes  []models.Node
	gets   int
	failOn string
}

func (s *countingStore) Create(_ context.Context, name, org string) (models.Node, error) {
	if s.failOn == "create" {
		return models.Node{}, errors.New("disk full")
	}
	n := models.Node{ID: int64(len(s.nodes) + 1), Name: name, Org: org}
	s.nodes = append(s.nodes, n)
	return n, nil
}

func (s *countingStore) Get(_ context.Context, id int64) (models.Node, error) {
	s.gets++
	if s.failOn == "get" {
		return models.Node{}, errors.New("connection reset")
	}
	if id < 1 || id > int64(len(s.nodes)) {
		return models.Node{}, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return s.nodes[id-1], nil
}

func (s *countingStore) List(_ context.Context) ([]models.Node, error) {
	if s.failOn == "list" {
		return nil, errors.New("timeout")
	}
	return append([]models.Node(nil), s.nodes...), nil
}

func TestCachedNodeStoreServesCreatedNodes(t *testing.T) {
	next := &countingStore{}
	store, err := NewCachedNodeStore(next, 10, 0, nil)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := store.Create(ctx, "Alice", "Acme")
	require.NoError(t, err)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, 0, next.gets)
}

func TestCachedNodeStoreReadThrough(t *testing.T) {
	next := &countingStore{nodes: []models.Node{{ID: 1, Name: "Alice", Org: "Acme"}}}
	m := metrics.NewManager()
	store, err := NewCachedNodeStore(next, 10, time.Minute, m)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := store.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
	}
	assert.Equal(t, 1, next.gets)
}

func TestCachedNodeStoreDoesNotCacheNotFound(t *testing.T) {
	next := &countingStore{}
	store, err := NewCachedNodeStore(next, 10, 0, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	// created behind the cache's back
	_, err = next.Create(ctx, "Alice", "Acme")
	require.NoError(t, err)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 2, next.gets)
}

func TestCachedNodeStorePropagatesErrors(t *testing.T) {
	ctx := context.Background()
	for _, op := range []string{"create", "get", "list"} {
		next := &countingStore{failOn: op}
		store, err := NewCachedNodeStore(next, 10, 0, nil)
		require.NoError(t, err)

		switch op {
		case "create":
			_, err = store.Create(ctx, "Alice", "Acme")
		case "get":
			_, err = store.Get(ctx, 1)
		case "list":
			_, err = store.List(ctx)
		}
		assert.Error(t, err, op)
		assert.False(t, errors.Is(err, ErrNodeNotFound), op)
	}
}

func TestNewCachedNodeStoreRejectsZeroSize(t *testing.T) {
	_, err := NewCachedNodeStore(&countingStore{}, 0, 0, nil)
	assert.Error(t, err)
}
