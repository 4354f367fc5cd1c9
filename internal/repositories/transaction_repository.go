package repositories

import (
	"github.com/anonto42/bank-backoffice/backend/internal/models"
	"gorm.io/gorm"
)

// TransactionRepository counts transactions referencing an account
type TransactionRepository interface {
	CountBySourceAccount(accountNumber string) (int64, error)
	CountByTargetAccount(accountNumber string) (int64, error)
}

type postgresTransactionRepository struct {
	db *gorm.DB
}

func NewPostgresTransactionRepository(db *gorm.DB) TransactionRepository {
	return &postgresTransactionRepository{db: db}
}

func (r *postgresTransactionRepository) CountBySourceAccount(accountNumber string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).Where("account_number = ?", accountNumber).Count(&count).Error
	return count, mapError(err)
}

func (r *postgresTransactionRepository) CountByTargetAccount(accountNumber string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).Where("target_account = ?", accountNumber).Count(&count).Error
	return count, mapError(err)
}
