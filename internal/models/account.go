package models

// AccountStatus is the lifecycle state of a bank account
type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountLocked   AccountStatus = "Locked"
	AccountArchived AccountStatus = "Archived"
)

// Account represents a bank account (PostgreSQL)
type Account struct {
	AccountNumber string        `json:"accountNumber" gorm:"primaryKey;size:34"`
	Name          string        `json:"name"`
	Balance       float64       `json:"balance" gorm:"type:numeric(14,2)"`
	Status        AccountStatus `json:"status" gorm:"size:16;index"`
}
