package models

import "time"

// Transaction is a money movement between accounts. It is only ever counted
// here; creation lives in the ledger service.
type Transaction struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Type          string    `json:"type" gorm:"size:16"` // deposit, withdraw, transfer, fee
	Status        string    `json:"status" gorm:"size:16"`
	AccountNumber string    `json:"accountNumber" gorm:"size:34;not null;index"`
	TargetAccount *string   `json:"targetAccount" gorm:"size:34;index"`
	Amount        float64   `json:"amount" gorm:"type:numeric(14,2)"`
	CreatedAt     time.Time `json:"createdAt"`

	Source *Account `json:"-" gorm:"foreignKey:AccountNumber;references:AccountNumber;constraint:OnDelete:RESTRICT"`
	Target *Account `json:"-" gorm:"foreignKey:TargetAccount;references:AccountNumber;constraint:OnDelete:RESTRICT"`
}
