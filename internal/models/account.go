package models

import (
	"strings"

	"gorm.io/gorm"
)

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeCash       AccountType = "cash"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCreditCard, AccountTypeCash:
		return true
	}
	return false
}

// Account is a ledger that imported transactions are merged into.
// Identifier is an immutable slug used on the command line.
type Account struct {
	Base
	Identifier string      `gorm:"size:64;not null;uniqueIndex" json:"identifier" validate:"required,max=64,slug"`
	Name       string      `gorm:"not null" json:"name" validate:"required"`
	Type       AccountType `gorm:"size:32;not null" json:"type" validate:"account_type"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

// BeforeCreate normalizes the identifier so lookups are case-insensitive.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	a.Identifier = strings.ToLower(strings.TrimSpace(a.Identifier))
	a.Name = strings.TrimSpace(a.Name)
	return nil
}
