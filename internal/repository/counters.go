// Package repository provides data access layer implementations for the application.
package repository

import (
	"gorm.io/gorm"
)

// adjustCounter applies a delta to a denormalized counter column as a single
// atomic arithmetic update. Decrements clamp at zero so a redundant
// deactivation can never drive a counter negative. A read-then-write here
// would lose updates under concurrent toggles on the same target.
func adjustCounter(tx *gorm.DB, model interface{}, id uint, column string, delta int) error {
	switch {
	case delta > 0:
		return tx.Model(model).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
	case delta < 0:
		d := -delta
		return tx.Model(model).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(
				"CASE WHEN "+column+" >= ? THEN "+column+" - ? ELSE 0 END", d, d)).Error
	default:
		return nil
	}
}
