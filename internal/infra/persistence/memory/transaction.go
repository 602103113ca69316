package memory

import (
	"context"
	"sync"

	"mart/internal/domain/repository"
)

// memoryTransactionManager implements TransactionManager over the in-memory
// store. Transactions are serialized with their own mutex and rolled back by
// restoring a snapshot of the tables, which mirrors the all-or-nothing
// behavior of the database-backed implementation closely enough for tests.
type memoryTransactionManager struct {
	store *Store
	txMu  sync.Mutex
}

type memoryRepositoryFactory struct {
	store *Store
}

func (f *memoryRepositoryFactory) NewUserRepository() repository.UserRepository {
	return NewUserRepository(f.store)
}

func (f *memoryRepositoryFactory) NewProductRepository() repository.ProductRepository {
	return NewProductRepository(f.store)
}

func (f *memoryRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	return NewOrderRepository(f.store)
}

// NewTransactionManager creates a TransactionManager backed by the store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &memoryTransactionManager{store: store}
}

func (tm *memoryTransactionManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tm.txMu.Lock()
	defer tm.txMu.Unlock()

	snap := tm.store.takeSnapshot()

	defer func() {
		if r := recover(); r != nil {
			tm.store.restoreSnapshot(snap)
			panic(r)
		}
	}()

	if err := fn(&memoryRepositoryFactory{store: tm.store}); err != nil {
		tm.store.restoreSnapshot(snap)

		return err
	}

	return nil
}
