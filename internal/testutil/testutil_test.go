package testutil_test

import (
	"testing"

	"reckon/internal/errors"
	"reckon/internal/models"
	"reckon/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{
		"accounts", "parse_formats", "classification_categories", "classification_raw_values",
		"classification_normalized", "classification_mappings", "classification_overrides",
		"transactions", "import_runs",
	} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}

	if err := db.Model(&models.ParseFormat{}).Count(&count).Error; err != nil {
		t.Fatalf("count formats: %v", err)
	}
	if count != int64(len(models.AllFormats)) {
		t.Errorf("expected %d seeded formats, got %d", len(models.AllFormats), count)
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestAccountWithIdentifier(t, first, "shared")
	testutil.CreateTestAccountWithIdentifier(t, second, "shared")
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	account := testutil.CreateTestAccount(t, db)
	if account.ID == 0 {
		t.Fatal("account should have a non-zero ID")
	}
	if account.Type != models.AccountTypeBank {
		t.Errorf("expected bank account type, got %s", account.Type)
	}

	pf := testutil.GetTestFormat(t, db, models.FormatAllyBank)
	if pf.Identifier != models.FormatAllyBank {
		t.Errorf("expected ally_bank format, got %s", pf.Identifier)
	}

	tx := testutil.CreateTestTransaction(t, db, account.ID, "2024-01-02", "COFFEE", -450)
	if tx.Amount != -450 {
		t.Errorf("expected amount -450, got %d", tx.Amount)
	}
	if n := testutil.CountTransactions(t, db, account.ID); n != 1 {
		t.Errorf("expected 1 transaction, got %d", n)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAssertExitCode(t *testing.T) {
	testutil.AssertExitCode(t, errors.ErrFileMalformed, errors.ExitPrecondition)
	testutil.AssertExitCode(t, errors.Wrap(errors.ErrStorage, nil), errors.ExitInternal)
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
