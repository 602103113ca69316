// Package memory provides a mutex-guarded in-memory implementation of the
// persistence layer. It backs unit tests and local development without a
// running PostgreSQL instance.
package memory

import (
	"maps"
	"sync"
	"time"

	"mart/internal/domain/entity"

	"github.com/google/uuid"
)

// Store holds all in-memory tables behind a single mutex.
type Store struct {
	mu sync.Mutex

	users    map[uuid.UUID]*entity.User
	products map[uuid.UUID]*entity.Product
	orders   map[uuid.UUID]*entity.Order
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*entity.User),
		products: make(map[uuid.UUID]*entity.Product),
		orders:   make(map[uuid.UUID]*entity.Order),
	}
}

// snapshot captures a shallow copy of every table. Entities are treated as
// immutable once stored (repositories always clone on read and write), so a
// map copy is enough to restore pre-transaction state.
type snapshot struct {
	users    map[uuid.UUID]*entity.User
	products map[uuid.UUID]*entity.Product
	orders   map[uuid.UUID]*entity.Order
}

func (s *Store) takeSnapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot{
		users:    maps.Clone(s.users),
		products: maps.Clone(s.products),
		orders:   maps.Clone(s.orders),
	}
}

func (s *Store) restoreSnapshot(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.products = snap.products
	s.orders = snap.orders
}

func cloneUser(user *entity.User) *entity.User {
	if user == nil {
		return nil
	}
	cloned := *user

	return &cloned
}

func cloneProduct(product *entity.Product) *entity.Product {
	if product == nil {
		return nil
	}
	cloned := *product

	return &cloned
}

func cloneOrder(order *entity.Order) *entity.Order {
	if order == nil {
		return nil
	}
	cloned := *order

	return &cloned
}

func now() time.Time {
	return time.Now().UTC()
}
