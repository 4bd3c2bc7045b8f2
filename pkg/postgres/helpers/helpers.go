// Package helpers contains small gorm conveniences shared by the storage
// layer.
package helpers

import "gorm.io/gorm"

// WrapTxAndCommit runs fn inside a database transaction. When tx is non-nil
// the caller already owns a transaction and commit or rollback is left to
// them; otherwise a new transaction is opened and committed or rolled back
// based on fn's error.
func WrapTxAndCommit[T any](fn func(*gorm.DB) (T, error), db *gorm.DB, tx *gorm.DB) (T, error) {
	exists := tx != nil

	if !exists {
		tx = db.Begin()
	}

	res, err := fn(tx)

	if err != nil && !exists {
		tx.Rollback()
	}
	if err == nil && !exists {
		tx.Commit()
	}
	return res, err
}
