package services

import (
	"context"
	"errors"
	"fmt"

	"mcpserver/internal/models"

	"gorm.io/gorm"
)

// ErrNodeNotFound is returned by Get when no node has the requested id.
// It is an expected outcome, not a storage failure.
var ErrNodeNotFound = errors.New("node not found")

// NodeStore persists nodes. Returned values are copies; callers never hold
// references into storage.
type NodeStore interface {
	// Create inserts a node and returns it with its assigned id.
	Create(ctx context.Context, name, org string) (models.Node, error)
	// Get returns the node with id, or an error wrapping ErrNodeNotFound.
	Get(ctx context.Context, id int64) (models.Node, error)
	// List returns every node ordered by id.
	List(ctx context.Context) ([]models.Node, error)
}

// GormNodeStore is the database-backed NodeStore. Each call is a single
// statement, so no cross-request locking is needed.
type GormNodeStore struct {
	db *gorm.DB
}

func NewGormNodeStore(db *gorm.DB) *GormNodeStore {
	return &GormNodeStore{db: db}
}

func (s *GormNodeStore) Create(ctx context.Context, name, org string) (models.Node, error) {
	node := models.Node{Name: name, Org: org}
	if err := s.db.WithContext(ctx).Create(&node).Error; err != nil {
		return models.Node{}, fmt.Errorf("create node: %w", err)
	}
	return node, nil
}

func (s *GormNodeStore) Get(ctx context.Context, id int64) (models.Node, error) {
	var node models.Node
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Node{}, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	if err != nil {
		return models.Node{}, fmt.Errorf("get node %d: %w", id, err)
	}
	return node, nil
}

func (s *GormNodeStore) List(ctx context.Context) ([]models.Node, error) {
	var nodes []models.Node
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&nodes).Error; err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	return nodes, nil
}
