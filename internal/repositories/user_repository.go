package repositories

import (
	"github.com/anonto42/bank-backoffice/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the read-only user lookups
type UserRepository interface {
	Exists(id uint) (bool, error)
	CountByAccountNumber(accountNumber string) (int64, error)
}

type postgresUserRepository struct {
	db *gorm.DB
}

func NewPostgresUserRepository(db *gorm.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, mapError(err)
}

func (r *postgresUserRepository) CountByAccountNumber(accountNumber string) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("account_number = ?", accountNumber).Count(&count).Error
	return count, mapError(err)
}
