package repositories

import (
	"github.com/anonto42/bank-backoffice/backend/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines the account operations the back office needs.
// Accounts are created elsewhere.
type AccountRepository interface {
	Exists(accountNumber string) (bool, error)
	Delete(accountNumber string) error
	List(filter AccountFilter) ([]models.Account, error)
}

type postgresAccountRepository struct {
	db *gorm.DB
}

func NewPostgresAccountRepository(db *gorm.DB) AccountRepository {
	return &postgresAccountRepository{db: db}
}

func (r *postgresAccountRepository) Exists(accountNumber string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Account{}).Where("account_number = ?", accountNumber).Count(&count).Error
	return count > 0, mapError(err)
}

// Delete removes one account. A row still referenced by transactions or users
// fails with ErrConstraintViolation.
func (r *postgresAccountRepository) Delete(accountNumber string) error {
	res := r.db.Where("account_number = ?", accountNumber).Delete(&models.Account{})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresAccountRepository) List(filter AccountFilter) ([]models.Account, error) {
	q := r.db.Model(&models.Account{})
	if !filter.IncludeArchived {
		q = q.Where("status <> ?", models.AccountArchived)
	}
	if filter.Query != "" {
		like := likePattern(filter.Query)
		q = q.Where("(account_number LIKE ? OR name ILIKE ?)", like, like)
	}

	accounts := make([]models.Account, 0)
	if err := q.Order("account_number").Find(&accounts).Error; err != nil {
		return nil, mapError(err)
	}
	return accounts, nil
}
