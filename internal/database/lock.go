package database

import "gorm.io/gorm"

// advisoryNamespace keeps account import locks apart from any other advisory
// locks sharing the database.
const advisoryNamespace int64 = 0x7265636b // "reck"

// LockAccount takes a transaction-scoped advisory lock on the account when
// the database supports it. On PostgreSQL it blocks until any other process
// importing into the same account commits or rolls back. SQLite already
// serializes writers, so it is a no-op there.
func LockAccount(tx *gorm.DB, accountID uint) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	key := advisoryNamespace<<32 | int64(accountID)
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", key).Error
}
