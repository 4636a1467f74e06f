package repository

import "gorm.io/gorm"

// conn returns tx when the caller runs inside a transaction, else the repository's pool.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
