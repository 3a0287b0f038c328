package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"reckon/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates a bank account with a unique identifier.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	return CreateTestAccountWithIdentifier(t, db, fmt.Sprintf("account-%d", nextID()))
}

// CreateTestAccountWithIdentifier creates a bank account with the given
// identifier.
func CreateTestAccountWithIdentifier(t *testing.T, db *gorm.DB, identifier string) *models.Account {
	t.Helper()

	account := &models.Account{
		Identifier: identifier,
		Name:       fmt.Sprintf("Test Account %d", nextID()),
		Type:       models.AccountTypeBank,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// GetTestFormat loads a seeded parse format.
func GetTestFormat(t *testing.T, db *gorm.DB, format models.FormatIdentifier) *models.ParseFormat {
	t.Helper()

	var pf models.ParseFormat
	if err := db.Where("identifier = ?", format).First(&pf).Error; err != nil {
		t.Fatalf("failed to load format %s: %v", format, err)
	}
	return &pf
}

// CreateTestTransaction inserts a ledger row directly, bypassing import.
// date is YYYY-MM-DD and amount is in cents.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID uint, date, description string, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID:   accountID,
		Date:        date,
		Description: description,
		Amount:      amount,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CountTransactions returns the number of ledger rows of an account.
func CountTransactions(t *testing.T, db *gorm.DB, accountID uint) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Transaction{}).Where("account_id = ?", accountID).Count(&n).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return n
}
