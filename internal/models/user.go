package models

// User is a back-office customer. AccountNumber links the user to the
// account they own, if any.
type User struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name"`
	Email         string  `json:"email" gorm:"uniqueIndex"`
	AccountNumber *string `json:"accountNumber" gorm:"size:34;index"`

	Account *Account `json:"-" gorm:"foreignKey:AccountNumber;references:AccountNumber;constraint:OnDelete:RESTRICT"`
}
