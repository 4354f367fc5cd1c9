package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store runs each operation inside one transaction. fn's Tx is only valid
// until fn returns; the transaction commits when fn returns nil and rolls
// back otherwise.
type Store interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}

// Tx hands out repositories bound to the same transaction
type Tx interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Users() UserRepository
	Notifications() NotificationRepository
}

type postgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a Store backed by GORM transactions
func NewPostgresStore(db *gorm.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Do(ctx context.Context, fn func(tx Tx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&postgresTx{db: db})
	})
	return mapError(err)
}

type postgresTx struct {
	db *gorm.DB
}

func (t *postgresTx) Accounts() AccountRepository {
	return NewPostgresAccountRepository(t.db)
}

func (t *postgresTx) Transactions() TransactionRepository {
	return NewPostgresTransactionRepository(t.db)
}

func (t *postgresTx) Users() UserRepository {
	return NewPostgresUserRepository(t.db)
}

func (t *postgresTx) Notifications() NotificationRepository {
	return NewPostgresNotificationRepository(t.db)
}
