package models

// DateLayout is the storage layout of Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction is one ledger row. (Date, Description, Amount) is deliberately
// not unique: identical purchases on the same day are separate rows.
type Transaction struct {
	Base
	AccountID      uint           `gorm:"not null;index:idx_transactions_account_date,priority:1" json:"account_id" validate:"required"`
	Date           string         `gorm:"size:10;not null;index:idx_transactions_account_date,priority:2" json:"date" validate:"calendar_date"`
	Description    string         `gorm:"not null" json:"description" validate:"required"`
	Amount         int64          `gorm:"type:bigint;not null" json:"amount"`
	CategoryID     *uint          `json:"category_id,omitempty"`
	CategorySource CategorySource `gorm:"size:16;not null;default:''" json:"category_source"`
	RawValueID     *uint          `json:"raw_value_id,omitempty"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"-" validate:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
}
